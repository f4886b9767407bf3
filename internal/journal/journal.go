// Package journal keeps an optional record of every upload: the original
// bytes in an archive and a metadata row in the analysis log. Both sinks are
// best effort. A failing sink is logged and never changes the response.
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/RMahshie/pitchscope/internal/processing"
	"github.com/RMahshie/pitchscope/internal/repository"
	"github.com/RMahshie/pitchscope/internal/storage"
	"github.com/RMahshie/pitchscope/pkg/models"
)

// OutcomeOK marks a successful analysis in the log
const OutcomeOK = "ok"

// Entry describes one finished upload
type Entry struct {
	ID          string
	Upload      []byte
	ContentType string
	Result      *models.AnalysisResult
	Err         error
	CreatedAt   time.Time
}

// Journal writes entries to whichever sinks are configured
type Journal struct {
	repo    repository.AnalysisRepository
	archive storage.Archive
}

// New creates a journal. Either sink may be nil.
func New(repo repository.AnalysisRepository, archive storage.Archive) *Journal {
	return &Journal{repo: repo, archive: archive}
}

// Enabled reports whether any sink is configured
func (j *Journal) Enabled() bool {
	return j != nil && (j.repo != nil || j.archive != nil)
}

// Outcome returns the log outcome for err
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	return string(processing.KindOf(err))
}

// Record archives the upload and logs its metadata
func (j *Journal) Record(ctx context.Context, e Entry) {
	if !j.Enabled() {
		return
	}
	logger := zerolog.Ctx(ctx)

	var archiveKey *string
	if j.archive != nil && len(e.Upload) > 0 {
		key := storage.RecordingKey(e.ID)
		if err := j.archive.Store(ctx, key, e.Upload, e.ContentType); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to archive upload")
		} else {
			archiveKey = &key
			logger.Debug().Str("key", key).Msg("Upload archived")
		}
	}

	if j.repo == nil {
		return
	}

	record := newRecord(e)
	record.ArchiveKey = archiveKey

	if err := j.repo.Create(ctx, record); err != nil {
		logger.Warn().Err(err).Msg("Failed to write analysis record")
	}
}

func newRecord(e Entry) *models.AnalysisRecord {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	record := &models.AnalysisRecord{
		ID:          e.ID,
		UploadBytes: len(e.Upload),
		Outcome:     Outcome(e.Err),
		CreatedAt:   createdAt,
	}

	if e.Err != nil {
		msg := e.Err.Error()
		var aErr *processing.AnalysisError
		if errors.As(e.Err, &aErr) {
			msg = aErr.Message
		}
		record.ErrorMessage = &msg
		return record
	}

	if r := e.Result; r != nil {
		record.SampleRate = r.SampleRate
		record.SampleCount = r.SampleCount
		record.DurationSec = r.DurationSec
		record.PitchHz = r.PitchHz
		record.Label = r.Label
	}

	return record
}
