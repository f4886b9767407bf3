package handlers

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"io"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/pitchscope/internal/journal"
	"github.com/RMahshie/pitchscope/internal/observe"
	"github.com/RMahshie/pitchscope/internal/processing"
	"github.com/RMahshie/pitchscope/internal/repository"
	"github.com/RMahshie/pitchscope/pkg/models"
)

// AnalysisHandler handles analysis-related HTTP requests
type AnalysisHandler struct {
	processingSvc processing.ProcessingService
	journal       *journal.Journal
	metrics       *observe.Metrics
	repo          repository.AnalysisRepository
}

// NewAnalysisHandler creates a new analysis handler. journal, metrics and repo may be nil.
func NewAnalysisHandler(processingSvc processing.ProcessingService, j *journal.Journal, metrics *observe.Metrics, repo repository.AnalysisRepository) *AnalysisHandler {
	return &AnalysisHandler{
		processingSvc: processingSvc,
		journal:       j,
		metrics:       metrics,
		repo:          repo,
	}
}

// Upload analyzes an uploaded voice recording
func (h *AnalysisHandler) Upload(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error) {
	analysisID := uuid.New().String()
	logger := log.With().Str("analysisID", analysisID).Logger()
	ctx = logger.WithContext(ctx)
	start := time.Now()

	form := req.RawBody.Data()
	if form == nil || !form.File.IsSet {
		logger.Warn().Msg("Upload request without file")
		h.finish(ctx, journal.Entry{ID: analysisID, Err: processing.ErrMissingInput}, start)
		return nil, analysisError(processing.ErrMissingInput)
	}
	defer form.File.Close()

	logger.Info().
		Str("filename", form.File.Filename).
		Str("contentType", form.File.ContentType).
		Msg("Upload received")

	return h.analyze(ctx, analysisID, form.File, form.File.ContentType, start)
}

// analyze reads the upload, runs the pipeline and accounts for the outcome
func (h *AnalysisHandler) analyze(ctx context.Context, analysisID string, file io.Reader, contentType string, start time.Time) (*models.UploadResponse, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to read upload")
		readErr := &processing.AnalysisError{
			Kind:    processing.KindMissingInput,
			Message: "Failed to read uploaded file",
			Err:     err,
		}
		h.finish(ctx, journal.Entry{ID: analysisID, ContentType: contentType, Err: readErr}, start)
		return nil, analysisError(readErr)
	}
	zerolog.Ctx(ctx).Debug().Int("size", len(raw)).Msg("Upload read")

	result, err := h.processingSvc.Analyze(ctx, raw)
	h.finish(ctx, journal.Entry{
		ID:          analysisID,
		Upload:      raw,
		ContentType: contentType,
		Result:      result,
		Err:         err,
	}, start)
	if err != nil {
		return nil, analysisError(err)
	}

	return &models.UploadResponse{
		AnalysisID: analysisID,
		Body: models.UploadResponseBody{
			Summary: result.Summary,
			Plot:    base64.StdEncoding.EncodeToString(result.Plot),
			Format:  result.Format,
		},
	}, nil
}

// finish records metrics and journals the upload
func (h *AnalysisHandler) finish(ctx context.Context, e journal.Entry, start time.Time) {
	var pitchHz *float64
	var label string
	if e.Result != nil {
		pitchHz = e.Result.PitchHz
		label = e.Result.Label
	}
	h.metrics.RecordAnalysis(ctx, journal.Outcome(e.Err), len(e.Upload), time.Since(start), pitchHz, label)

	e.CreatedAt = start.UTC()
	h.journal.Record(ctx, e)
}

// ListAnalyses returns the most recent journaled analyses
func (h *AnalysisHandler) ListAnalyses(ctx context.Context, req *models.ListAnalysesRequest) (*models.ListAnalysesResponse, error) {
	if h.repo == nil {
		return nil, huma.Error404NotFound("Analysis log is not enabled")
	}

	records, err := h.repo.ListRecent(ctx, req.Limit)
	if err != nil {
		log.Error().Err(err).Int("limit", req.Limit).Msg("Failed to list analyses")
		return nil, huma.Error500InternalServerError("Failed to list analyses", err)
	}

	resp := &models.ListAnalysesResponse{}
	resp.Body.Analyses = records
	return resp, nil
}

// GetAnalysis returns one journaled analysis
func (h *AnalysisHandler) GetAnalysis(ctx context.Context, req *models.GetAnalysisRequest) (*models.GetAnalysisResponse, error) {
	if h.repo == nil {
		return nil, huma.Error404NotFound("Analysis log is not enabled")
	}

	analysisID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid analysis ID", err)
	}

	record, err := h.repo.GetByID(ctx, analysisID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, huma.Error404NotFound("Analysis not found", err)
	}
	if err != nil {
		log.Error().Err(err).Str("analysisID", req.ID).Msg("Failed to get analysis")
		return nil, huma.Error500InternalServerError("Failed to get analysis", err)
	}

	return &models.GetAnalysisResponse{Body: record}, nil
}

// Health reports service liveness
func Health(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
	resp := &models.HealthResponse{}
	resp.Body.Status = "healthy"
	resp.Body.Version = Version
	resp.Body.Time = time.Now()
	return resp, nil
}

// Version is the API version reported by the health and docs endpoints
const Version = "1.0.0"
