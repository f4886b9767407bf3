package models

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// UploadForm is the multipart form accepted by the upload operation
type UploadForm struct {
	File huma.FormFile `form:"file" doc:"Recorded audio in any container ffmpeg understands"`
}

// UploadRequest represents a voice recording upload
type UploadRequest struct {
	RawBody huma.MultipartFormFiles[UploadForm]
}

// UploadResponseBody is the body of a successful analysis
type UploadResponseBody struct {
	Summary string `json:"summary" doc:"Human-readable pitch summary"`
	Plot    string `json:"plot" doc:"Base64-encoded waveform image"`
	Format  string `json:"format" enum:"svg" doc:"Image format of plot"`
}

// UploadResponse represents the analysis of an uploaded recording
type UploadResponse struct {
	AnalysisID string `header:"X-Analysis-ID" doc:"Analysis identifier"`
	Body       UploadResponseBody
}

// ListAnalysesRequest represents a request for recent analyses
type ListAnalysesRequest struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Maximum number of records"`
}

// ListAnalysesResponse represents recent analysis records
type ListAnalysesResponse struct {
	Body struct {
		Analyses []*AnalysisRecord `json:"analyses" doc:"Most recent analyses first"`
	}
}

// GetAnalysisRequest represents a request for one journaled analysis
type GetAnalysisRequest struct {
	ID string `path:"id" doc:"Analysis identifier returned in X-Analysis-ID"`
}

// GetAnalysisResponse represents one journaled analysis
type GetAnalysisResponse struct {
	Body *AnalysisRecord
}

// AnalysisResult is the outcome of one pipeline run
type AnalysisResult struct {
	Summary string
	Plot    []byte
	Format  string

	PitchHz     *float64
	Label       string
	SampleRate  int
	SampleCount int
	DurationSec float64
}

// AnalysisRecord is the journaled metadata of one upload
type AnalysisRecord struct {
	ID           string    `json:"id" doc:"Analysis identifier"`
	UploadBytes  int       `json:"upload_bytes" doc:"Size of the uploaded file"`
	SampleRate   int       `json:"sample_rate,omitempty" doc:"Decoded sample rate in Hz"`
	SampleCount  int       `json:"sample_count,omitempty" doc:"Number of analyzed samples"`
	DurationSec  float64   `json:"duration_sec,omitempty" doc:"Recording length in seconds"`
	PitchHz      *float64  `json:"pitch_hz,omitempty" doc:"Estimated pitch in Hz"`
	Label        string    `json:"label,omitempty" doc:"Coarse voice label"`
	Outcome      string    `json:"outcome" doc:"ok or the failure kind"`
	ErrorMessage *string   `json:"error_message,omitempty" doc:"Failure detail"`
	ArchiveKey   *string   `json:"archive_key,omitempty" doc:"Object key of the archived upload"`
	CreatedAt    time.Time `json:"created_at" doc:"When the upload was analyzed"`
}
