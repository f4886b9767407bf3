package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/pitchscope/internal/api"
	"github.com/RMahshie/pitchscope/internal/config"
	"github.com/RMahshie/pitchscope/internal/decoder"
	"github.com/RMahshie/pitchscope/internal/journal"
	"github.com/RMahshie/pitchscope/internal/observe"
	"github.com/RMahshie/pitchscope/internal/pitch"
	"github.com/RMahshie/pitchscope/internal/processing"
	"github.com/RMahshie/pitchscope/internal/repository"
	"github.com/RMahshie/pitchscope/internal/repository/postgres"
	"github.com/RMahshie/pitchscope/internal/storage"
	"github.com/RMahshie/pitchscope/internal/waveform"
)

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.Server.Env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if level, err := zerolog.ParseLevel(cfg.Server.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx := context.Background()

	// Analysis pipeline
	dec := decoder.NewFFmpegDecoder(decoder.Options{
		FFmpegPath: cfg.Decoder.FFmpegPath,
		SampleRate: cfg.Decoder.SampleRate,
		Channels:   1,
		MinBytes:   cfg.Decoder.MinUploadBytes,
		Timeout:    cfg.Decoder.Timeout,
	})
	estimator := pitch.NewEstimator(pitch.Band{
		Low:  cfg.Analysis.VoiceBandLowHz,
		High: cfg.Analysis.VoiceBandHighHz,
	})
	processingSvc := processing.NewProcessingService(
		dec,
		waveform.NewSVGRenderer(waveform.DefaultWidth, waveform.DefaultHeight),
		estimator,
		pitch.NewClassifier(cfg.Analysis.GenderThresholdHz),
		waveform.Format,
	)

	// Optional analysis log
	var analysisRepo repository.AnalysisRepository
	if cfg.Database.URL != "" {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = db.PingContext(pingCtx)
		if err == nil {
			err = postgres.Migrate(pingCtx, db)
		}
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare database")
		}

		analysisRepo = postgres.NewPostgresAnalysisRepository(db)
		log.Info().Msg("Analysis log enabled")
	}

	// Optional recording archive
	var archive storage.Archive
	if cfg.Archive.Enabled() {
		archive, err = storage.New(ctx, storage.Config{
			Backend:   cfg.Archive.Backend,
			Bucket:    cfg.Archive.Bucket,
			Endpoint:  cfg.Archive.Endpoint,
			Region:    cfg.Archive.Region,
			AccessKey: cfg.Archive.AccessKeyID,
			SecretKey: cfg.Archive.SecretAccessKey,
			UseSSL:    cfg.Archive.UseSSL,
		})
		if err != nil {
			log.Fatal().Err(err).Str("backend", cfg.Archive.Backend).Msg("Failed to initialize archive")
		}
		log.Info().Str("backend", cfg.Archive.Backend).Str("bucket", cfg.Archive.Bucket).Msg("Recording archive enabled")
	}

	var recorder *journal.Journal
	if analysisRepo != nil || archive != nil {
		recorder = journal.New(analysisRepo, archive)
	}

	var provider *observe.Provider
	if cfg.Server.MetricsEnabled {
		provider, err = observe.InitProvider()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize metrics")
		}
	}

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Analysis-ID"},
		MaxAge:         300,
	}))

	// Create Huma API
	humaAPI := humachi.New(router, api.NewConfig())
	api.RegisterRoutes(router, humaAPI, processingSvc, analysisRepo, recorder, provider, cfg.Server.MaxUploadBytes)

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("env", cfg.Server.Env).
			Float64("band_low_hz", cfg.Analysis.VoiceBandLowHz).
			Float64("band_high_hz", cfg.Analysis.VoiceBandHighHz).
			Float64("threshold_hz", cfg.Analysis.GenderThresholdHz).
			Msg("Starting Pitchscope API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if provider != nil {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shut down metrics provider")
		}
	}

	log.Info().Msg("Server exited")
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_ip", r.RemoteAddr).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("latency", time.Since(start)).
					Str("user_agent", r.UserAgent()).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
