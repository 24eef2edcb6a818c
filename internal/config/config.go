// Package config loads and validates the TOML configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration.
type Config struct {
	Logging       LoggingConfig       `toml:"logging"`
	Server        ServerConfig        `toml:"server"`
	Storage       StorageConfig       `toml:"storage"`
	Transcription TranscriptionConfig `toml:"transcription"`
	Redaction     RedactionConfig     `toml:"redaction"`
	Confidence    ConfidenceConfig    `toml:"confidence"`
	Summary       SummaryConfig       `toml:"summary"`
	Synthesis     SynthesisConfig     `toml:"synthesis"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json, console
}

// ServerConfig configures the optional audit API server.
type ServerConfig struct {
	ListenAddr         string   `toml:"listen_addr"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
}

// StorageConfig configures artifact and audit persistence.
type StorageConfig struct {
	OutputDir  string `toml:"output_dir"`
	SQLitePath string `toml:"sqlite_path"`
}

// TranscriptionConfig configures the speech recognizer.
type TranscriptionConfig struct {
	LanguageCode    string `toml:"language_code"`
	SampleRateHertz int    `toml:"sample_rate_hertz"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// RedactionConfig configures the entity-detection sidecar.
type RedactionConfig struct {
	NERBaseURL     string `toml:"ner_base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ConfidenceConfig holds the signal weights. They should sum to 1.
type ConfidenceConfig struct {
	ASRWeight        float64 `toml:"asr_weight"`
	SNRWeight        float64 `toml:"snr_weight"`
	PerplexityWeight float64 `toml:"perplexity_weight"`
}

// SummaryConfig configures the extractive summarizer.
type SummaryConfig struct {
	MaxSentences int `toml:"max_sentences"`
}

// SynthesisConfig configures the speech synthesis service.
type SynthesisConfig struct {
	OpenAIAPIKey string `toml:"openai_api_key"`
	Model        string `toml:"model"`
	Voice        string `toml:"voice"`
}

// Default returns the configuration defaults used when fields are absent.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		Storage: StorageConfig{
			OutputDir:  "out",
			SQLitePath: "audit.db",
		},
		Transcription: TranscriptionConfig{
			LanguageCode:   "en-US",
			TimeoutSeconds: 60,
		},
		Redaction: RedactionConfig{
			NERBaseURL:     "http://localhost:8001",
			TimeoutSeconds: 10,
		},
		Confidence: ConfidenceConfig{
			ASRWeight:        0.5,
			SNRWeight:        0.3,
			PerplexityWeight: 0.2,
		},
		Summary: SummaryConfig{
			MaxSentences: 2,
		},
		Synthesis: SynthesisConfig{
			Model: "tts-1",
			Voice: "alloy",
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error: the defaults are returned, with the OpenAI key still taken from
// the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if cfg.Synthesis.OpenAIAPIKey == "" {
		cfg.Synthesis.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Summary.MaxSentences < 1 {
		return fmt.Errorf("summary.max_sentences must be at least 1, got %d", c.Summary.MaxSentences)
	}
	if c.Confidence.ASRWeight < 0 || c.Confidence.SNRWeight < 0 || c.Confidence.PerplexityWeight < 0 {
		return fmt.Errorf("confidence weights must be non-negative")
	}
	if c.Confidence.ASRWeight+c.Confidence.SNRWeight+c.Confidence.PerplexityWeight == 0 {
		return fmt.Errorf("confidence weights must not all be zero")
	}
	if c.Redaction.NERBaseURL == "" {
		return fmt.Errorf("redaction.ner_base_url must be set")
	}
	return nil
}
