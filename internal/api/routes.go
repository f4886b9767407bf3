package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/RMahshie/pitchscope/internal/api/handlers"
	"github.com/RMahshie/pitchscope/internal/journal"
	"github.com/RMahshie/pitchscope/internal/observe"
	"github.com/RMahshie/pitchscope/internal/processing"
	"github.com/RMahshie/pitchscope/internal/repository"
)

// Banner is served at the root path for liveness checks
const Banner = "Voice backend is running"

// NewConfig returns the huma configuration of the service. Response bodies
// carry no $schema links.
func NewConfig() huma.Config {
	config := huma.DefaultConfig("Pitchscope API", handlers.Version)
	config.DocsPath = "/api/docs"
	config.CreateHooks = nil
	return config
}

// RegisterRoutes sets up all API routes. analysisRepo, j and provider are optional.
func RegisterRoutes(router *chi.Mux, api huma.API, processingSvc processing.ProcessingService, analysisRepo repository.AnalysisRepository, j *journal.Journal, provider *observe.Provider, maxUploadBytes int64) {
	var metrics *observe.Metrics
	if provider != nil {
		metrics = provider.Metrics
	}

	// Initialize handlers
	analysisHandler := handlers.NewAnalysisHandler(processingSvc, j, metrics, analysisRepo)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(Banner))
	})

	if provider != nil && provider.Handler != nil {
		router.Handle("/metrics", provider.Handler)
	}

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, handlers.Health)

	huma.Register(api, huma.Operation{
		OperationID:  "uploadRecording",
		Method:       http.MethodPost,
		Path:         "/upload",
		Summary:      "Analyze a voice recording",
		Description:  "Decodes the uploaded audio, renders its waveform and estimates the pitch of the voice",
		Tags:         []string{"Analysis"},
		MaxBodyBytes: maxUploadBytes,
		Middlewares:  huma.Middlewares{handlers.RequireMultipart(api)},
		Errors:       []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusServiceUnavailable},
	}, analysisHandler.Upload)

	// History requires the analysis log
	if analysisRepo != nil {
		huma.Register(api, huma.Operation{
			OperationID: "listAnalyses",
			Method:      http.MethodGet,
			Path:        "/api/analyses",
			Summary:     "List recent analyses",
			Description: "Returns journaled analysis metadata, newest first",
			Tags:        []string{"Analysis"},
		}, analysisHandler.ListAnalyses)

		huma.Register(api, huma.Operation{
			OperationID: "getAnalysis",
			Method:      http.MethodGet,
			Path:        "/api/analyses/{id}",
			Summary:     "Get an analysis",
			Description: "Returns the journaled metadata of one analysis",
			Tags:        []string{"Analysis"},
			Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
		}, analysisHandler.GetAnalysis)
	}
}
