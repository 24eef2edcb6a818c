package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/xranano/AI-audio-pipeline/internal/api"
	"github.com/xranano/AI-audio-pipeline/internal/confidence"
	"github.com/xranano/AI-audio-pipeline/internal/config"
	"github.com/xranano/AI-audio-pipeline/internal/pipeline"
	"github.com/xranano/AI-audio-pipeline/internal/redact"
	"github.com/xranano/AI-audio-pipeline/internal/redact/ner"
	"github.com/xranano/AI-audio-pipeline/internal/storage/sqlite"
	sttgoogle "github.com/xranano/AI-audio-pipeline/internal/stt/google"
	"github.com/xranano/AI-audio-pipeline/internal/summarize"
	ttsopenai "github.com/xranano/AI-audio-pipeline/internal/tts/openai"
	"github.com/xranano/AI-audio-pipeline/pkg/logger"
)

// Exit codes per fatal category.
const (
	exitGeneric       = 1
	exitUsage         = 2
	exitInput         = 3
	exitTranscription = 4
	exitDetection     = 5
	exitSynthesis     = 6
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = flag.String("config", "config.toml", "path to the TOML configuration file")
		serve      = flag.Bool("serve", false, "serve stored audit records over HTTP instead of processing a file")
	)
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return exitGeneric
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return exitGeneric
	}
	defer log.Sync()

	if *serve {
		return runServer(cfg, log)
	}

	if flag.NArg() < 1 {
		usage()
		return exitUsage
	}

	return runPipeline(cfg, log, flag.Arg(0))
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <audio-file>\n", os.Args[0])
	flag.PrintDefaults()
}

// runPipeline processes one audio file end to end.
func runPipeline(cfg *config.Config, log *logger.Logger, audioPath string) int {
	ctx := context.Background()

	db, err := sqlite.Open(cfg.Storage.SQLitePath)
	if err != nil {
		log.Error("Failed to open audit database", logger.Error(err))
		return exitGeneric
	}
	defer db.Close()

	store, err := sqlite.NewRecordStorage(db, log)
	if err != nil {
		log.Error("Failed to initialize audit storage", logger.Error(err))
		return exitGeneric
	}

	transcriber, err := sttgoogle.New(ctx, sttgoogle.Config{
		LanguageCode:    cfg.Transcription.LanguageCode,
		SampleRateHertz: cfg.Transcription.SampleRateHertz,
		Timeout:         time.Duration(cfg.Transcription.TimeoutSeconds) * time.Second,
	}, log)
	if err != nil {
		log.Error("Failed to create transcriber", logger.Error(err))
		return exitGeneric
	}
	defer transcriber.Close()

	entityDetector := ner.NewClient(
		cfg.Redaction.NERBaseURL,
		time.Duration(cfg.Redaction.TimeoutSeconds)*time.Second,
		log,
	)

	orchestrator := pipeline.New(
		transcriber,
		confidence.NewEngine(confidence.Weights{
			ASR:        cfg.Confidence.ASRWeight,
			SNR:        cfg.Confidence.SNRWeight,
			Perplexity: cfg.Confidence.PerplexityWeight,
		}),
		redact.NewEngine(redact.NewPatternDetector(), entityDetector, log),
		&summarize.LeadingSentences{MaxSentences: cfg.Summary.MaxSentences},
		ttsopenai.New(ttsopenai.Config{
			APIKey: cfg.Synthesis.OpenAIAPIKey,
			Model:  cfg.Synthesis.Model,
			Voice:  cfg.Synthesis.Voice,
		}, log),
		store,
		pipeline.Config{OutputDir: cfg.Storage.OutputDir},
		log,
	)

	record, err := orchestrator.Run(ctx, audioPath)
	if err != nil {
		log.Error("Pipeline failed",
			logger.String("stage", string(pipeline.FailedStage(err))),
			logger.Error(err))
		return exitCodeFor(err)
	}

	log.Info("Pipeline complete",
		logger.Int64("record_id", record.ID),
		logger.String("redacted_transcript", record.RedactedTranscriptFile),
		logger.String("summary_audio", record.SummaryAudioFile),
		logger.Int("redactions", len(record.Redactions)),
		logger.Bool("confidence_available", record.ConfidenceAvailable),
		logger.Float64("confidence_score", record.ConfidenceScore),
		logger.String("confidence_level", string(record.ConfidenceLevel)))

	return 0
}

// runServer exposes stored audit records over HTTP.
func runServer(cfg *config.Config, log *logger.Logger) int {
	db, err := sqlite.Open(cfg.Storage.SQLitePath)
	if err != nil {
		log.Error("Failed to open audit database", logger.Error(err))
		return exitGeneric
	}
	defer db.Close()

	store, err := sqlite.NewRecordStorage(db, log)
	if err != nil {
		log.Error("Failed to initialize audit storage", logger.Error(err))
		return exitGeneric
	}

	router := api.NewRouter(store, cfg, log)
	log.Info("Serving audit records", logger.String("addr", cfg.Server.ListenAddr))
	if err := http.ListenAndServe(cfg.Server.ListenAddr, router.Routes()); err != nil {
		log.Error("HTTP server failed", logger.Error(err))
		return exitGeneric
	}
	return 0
}

// exitCodeFor maps a pipeline failure to its exit code category.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrInputNotFound):
		return exitInput
	case errors.Is(err, redact.ErrDetectionUnavailable):
		return exitDetection
	case pipeline.FailedStage(err) == pipeline.StageTranscription:
		return exitTranscription
	case pipeline.FailedStage(err) == pipeline.StageSynthesis:
		return exitSynthesis
	default:
		return exitGeneric
	}
}
