package processing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/RMahshie/pitchscope/internal/audio"
	"github.com/RMahshie/pitchscope/internal/decoder"
	"github.com/RMahshie/pitchscope/internal/pitch"
	"github.com/RMahshie/pitchscope/pkg/models"
)

// Renderer draws a signal as an encoded image
type Renderer interface {
	Render(sig audio.MonoSignal) ([]byte, error)
}

// Estimator finds the dominant voice frequency of a signal
type Estimator interface {
	Estimate(sig audio.MonoSignal) pitch.Estimate
}

// ProcessingService runs the decode → reduce → render/estimate → classify pipeline
type ProcessingService interface {
	Analyze(ctx context.Context, raw []byte) (*models.AnalysisResult, error)
}

type processingService struct {
	decoder    decoder.Decoder
	renderer   Renderer
	estimator  Estimator
	classifier pitch.Classifier
	format     string
}

// NewProcessingService creates the pipeline. format is the image tag reported for renderer output.
func NewProcessingService(dec decoder.Decoder, renderer Renderer, estimator Estimator, classifier pitch.Classifier, format string) ProcessingService {
	return &processingService{
		decoder:    dec,
		renderer:   renderer,
		estimator:  estimator,
		classifier: classifier,
		format:     format,
	}
}

// Analyze decodes raw audio and analyzes it. Every failure is an *AnalysisError.
func (s *processingService) Analyze(ctx context.Context, raw []byte) (*models.AnalysisResult, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Int("upload_bytes", len(raw)).Msg("Analyzing upload")

	// Step 1: Decode, terminal on failure
	buf, err := s.decoder.Decode(ctx, raw)
	if err != nil {
		aErr := decodeFailure(err)
		logger.Warn().Err(err).Str("kind", string(aErr.Kind)).Msg("Decode failed")
		return nil, aErr
	}

	result, err := s.analyze(buf)
	if err != nil {
		logger.Error().Err(err).Msg("Analysis failed")
		return nil, err
	}

	logger.Info().
		Int("samples", result.SampleCount).
		Int("sample_rate", result.SampleRate).
		Str("label", result.Label).
		Msg(result.Summary)

	return result, nil
}

func (s *processingService) analyze(buf *audio.PCMBuffer) (result *models.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &AnalysisError{Kind: KindAnalysisFault, Message: fmt.Sprint(r)}
		}
	}()

	// Step 2: Reduce to the analysis channel
	sig, err := audio.Reduce(buf)
	if err != nil {
		return nil, fault(err)
	}

	// Step 3: Render the waveform
	plot, err := s.renderer.Render(sig)
	if err != nil {
		return nil, fault(err)
	}

	// Step 4: Estimate and classify
	est := s.estimator.Estimate(sig)
	label := s.classifier.Classify(est)

	result = &models.AnalysisResult{
		Summary:     pitch.Summary(est, label),
		Plot:        plot,
		Format:      s.format,
		Label:       string(label),
		SampleRate:  sig.SampleRate,
		SampleCount: sig.Len(),
		DurationSec: sig.Duration(),
	}
	if est.Determined {
		hz := est.Hz
		result.PitchHz = &hz
	}

	return result, nil
}
