package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RMahshie/pitchscope/internal/repository"
	"github.com/RMahshie/pitchscope/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id            UUID PRIMARY KEY,
	upload_bytes  INTEGER NOT NULL,
	sample_rate   INTEGER NOT NULL DEFAULT 0,
	sample_count  INTEGER NOT NULL DEFAULT 0,
	duration_sec  DOUBLE PRECISION NOT NULL DEFAULT 0,
	pitch_hz      DOUBLE PRECISION,
	label         TEXT NOT NULL DEFAULT '',
	outcome       TEXT NOT NULL,
	error_message TEXT,
	archive_key   TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS analyses_created_at_idx ON analyses (created_at DESC);`

const selectColumns = `id, upload_bytes, sample_rate, sample_count, duration_sec, pitch_hz, label, outcome, error_message, archive_key, created_at`

// PostgresAnalysisRepository implements AnalysisRepository for PostgreSQL
type PostgresAnalysisRepository struct {
	db *sql.DB
}

// NewPostgresAnalysisRepository creates a new PostgreSQL analysis repository
func NewPostgresAnalysisRepository(db *sql.DB) repository.AnalysisRepository {
	return &PostgresAnalysisRepository{db: db}
}

// Migrate creates the analyses table if it does not exist
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate analyses table: %w", err)
	}
	return nil
}

// Create inserts a new analysis record
func (r *PostgresAnalysisRepository) Create(ctx context.Context, record *models.AnalysisRecord) error {
	query := `
		INSERT INTO analyses (id, upload_bytes, sample_rate, sample_count, duration_sec, pitch_hz, label, outcome, error_message, archive_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.UploadBytes,
		record.SampleRate,
		record.SampleCount,
		record.DurationSec,
		record.PitchHz,
		record.Label,
		record.Outcome,
		record.ErrorMessage,
		record.ArchiveKey,
		record.CreatedAt)

	return err
}

// GetByID retrieves an analysis record by ID
func (r *PostgresAnalysisRepository) GetByID(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM analyses WHERE id = $1`
	return scanRecord(r.db.QueryRowContext(ctx, query, id))
}

// ListRecent retrieves the newest analysis records
func (r *PostgresAnalysisRepository) ListRecent(ctx context.Context, limit int) ([]*models.AnalysisRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM analyses ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*models.AnalysisRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	var pitchHz sql.NullFloat64
	var errorMsg, archiveKey sql.NullString

	err := row.Scan(
		&record.ID,
		&record.UploadBytes,
		&record.SampleRate,
		&record.SampleCount,
		&record.DurationSec,
		&pitchHz,
		&record.Label,
		&record.Outcome,
		&errorMsg,
		&archiveKey,
		&record.CreatedAt)

	if err != nil {
		return nil, err
	}

	if pitchHz.Valid {
		record.PitchHz = &pitchHz.Float64
	}
	if errorMsg.Valid {
		record.ErrorMessage = &errorMsg.String
	}
	if archiveKey.Valid {
		record.ArchiveKey = &archiveKey.String
	}

	return &record, nil
}
