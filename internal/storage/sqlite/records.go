package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xranano/AI-audio-pipeline/internal/confidence"
	"github.com/xranano/AI-audio-pipeline/internal/pipeline"
	"github.com/xranano/AI-audio-pipeline/internal/redact"
	"github.com/xranano/AI-audio-pipeline/pkg/logger"
)

// RecordStorage handles storage of pipeline audit records and their
// redaction ledgers.
type RecordStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewRecordStorage creates a new SQLite record storage.
func NewRecordStorage(db *sql.DB, log *logger.Logger) (*RecordStorage, error) {
	storage := &RecordStorage{
		db:     db,
		logger: log.Named("sqlite-records"),
	}
	if err := storage.initDB(); err != nil {
		return nil, fmt.Errorf("failed to initialize record storage: %w", err)
	}
	return storage, nil
}

var _ pipeline.RecordStore = (*RecordStorage)(nil)

// initDB initializes the database tables
func (s *RecordStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS pipeline_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			audio_file TEXT NOT NULL,
			transcript_file TEXT NOT NULL,
			redacted_transcript_file TEXT NOT NULL,
			summary_audio_file TEXT NOT NULL,
			transcript_text TEXT NOT NULL,
			redacted_text TEXT NOT NULL,
			confidence_available INTEGER NOT NULL,
			confidence_score REAL NOT NULL,
			confidence_level TEXT NOT NULL,
			summary_text TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create pipeline_records table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS redactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			record_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			category TEXT NOT NULL,
			original_text TEXT NOT NULL,
			start_offset INTEGER NOT NULL,
			end_offset INTEGER NOT NULL,
			source TEXT NOT NULL,
			FOREIGN KEY (record_id) REFERENCES pipeline_records(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create redactions table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_records_created_at ON pipeline_records(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_records_level ON pipeline_records(confidence_level)`,
		`CREATE INDEX IF NOT EXISTS idx_redactions_record_id ON redactions(record_id)`,
		`CREATE INDEX IF NOT EXISTS idx_redactions_category ON redactions(category)`,
	}
	for _, indexSQL := range indexes {
		if _, err := s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create record index: %w", err)
		}
	}

	return nil
}

// StoreRecord stores an audit record with its full redaction ledger in one
// transaction. The ledger rows carry a sequence number so the two-tier
// ledger order (pattern spans, then entity spans) survives round-trips.
func (s *RecordStorage) StoreRecord(ctx context.Context, record *pipeline.Record) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO pipeline_records
		(audio_file, transcript_file, redacted_transcript_file, summary_audio_file,
		 transcript_text, redacted_text, confidence_available, confidence_score,
		 confidence_level, summary_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.AudioFile,
		record.TranscriptFile,
		record.RedactedTranscriptFile,
		record.SummaryAudioFile,
		record.TranscriptText,
		record.RedactedText,
		record.ConfidenceAvailable,
		record.ConfidenceScore,
		string(record.ConfidenceLevel),
		record.SummaryText,
		record.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert pipeline record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	for seq, span := range record.Redactions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO redactions
			(record_id, seq, category, original_text, start_offset, end_offset, source)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, seq, string(span.Category), span.OriginalText,
			span.StartOffset, span.EndOffset, string(span.Source),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert redaction span: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit record: %w", err)
	}

	s.logger.Debug("stored pipeline record",
		logger.Int64("id", id),
		logger.Int("redactions", len(record.Redactions)))

	return id, nil
}

// GetRecentRecords returns the most recent audit records, newest first,
// with their ledgers loaded.
func (s *RecordStorage) GetRecentRecords(ctx context.Context, limit int) ([]*pipeline.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, audio_file, transcript_file, redacted_transcript_file, summary_audio_file,
		 transcript_text, redacted_text, confidence_available, confidence_score,
		 confidence_level, summary_text, created_at
		FROM pipeline_records
		ORDER BY created_at DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent records: %w", err)
	}
	defer rows.Close()

	records, err := s.scanRecordRows(rows)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.Redactions, err = s.loadLedger(ctx, record.ID); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// GetRecordByID returns one audit record with its ledger, or nil when the
// id is unknown.
func (s *RecordStorage) GetRecordByID(ctx context.Context, id int64) (*pipeline.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, audio_file, transcript_file, redacted_transcript_file, summary_audio_file,
		 transcript_text, redacted_text, confidence_available, confidence_score,
		 confidence_level, summary_text, created_at
		FROM pipeline_records
		WHERE id = ?`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query record by id: %w", err)
	}
	defer rows.Close()

	records, err := s.scanRecordRows(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	record := records[0]
	if record.Redactions, err = s.loadLedger(ctx, record.ID); err != nil {
		return nil, err
	}
	return record, nil
}

// loadLedger loads a record's redaction spans in stored ledger order.
func (s *RecordStorage) loadLedger(ctx context.Context, recordID int64) (redact.Ledger, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, original_text, start_offset, end_offset, source
		FROM redactions
		WHERE record_id = ?
		ORDER BY seq ASC`,
		recordID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query redactions: %w", err)
	}
	defer rows.Close()

	ledger := redact.Ledger{}
	for rows.Next() {
		var span redact.Span
		var category, source string
		if err := rows.Scan(&category, &span.OriginalText, &span.StartOffset, &span.EndOffset, &source); err != nil {
			return nil, fmt.Errorf("failed to scan redaction span: %w", err)
		}
		span.Category = redact.Category(category)
		span.Source = redact.Source(source)
		ledger = append(ledger, span)
	}
	return ledger, rows.Err()
}

// scanRecordRows scans database rows into Record structs.
func (s *RecordStorage) scanRecordRows(rows *sql.Rows) ([]*pipeline.Record, error) {
	var records []*pipeline.Record
	for rows.Next() {
		var record pipeline.Record
		var level, createdAt string

		if err := rows.Scan(
			&record.ID,
			&record.AudioFile,
			&record.TranscriptFile,
			&record.RedactedTranscriptFile,
			&record.SummaryAudioFile,
			&record.TranscriptText,
			&record.RedactedText,
			&record.ConfidenceAvailable,
			&record.ConfidenceScore,
			&level,
			&record.SummaryText,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		record.ConfidenceLevel = confidence.Level(level)

		var err error
		record.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		records = append(records, &record)
	}
	return records, rows.Err()
}
