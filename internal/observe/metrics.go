// Package observe provides OpenTelemetry metrics for the analysis service.
//
// Instruments are created from any [metric.MeterProvider] via [NewMetrics].
// [InitProvider] installs a Prometheus exporter bridge so the same
// instruments can be scraped from /metrics.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/RMahshie/pitchscope"

// Metrics holds the instruments recorded per analysis request
type Metrics struct {
	// Analyses counts finished uploads. Attribute: outcome ("ok" or a failure kind).
	Analyses metric.Int64Counter

	// AnalysisDuration tracks the full pipeline latency, transcoder included.
	AnalysisDuration metric.Float64Histogram

	// UploadSize tracks received upload sizes in bytes.
	UploadSize metric.Int64Histogram

	// PitchFrequency tracks determined estimates. Attribute: label.
	PitchFrequency metric.Float64Histogram
}

var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

var pitchBuckets = []float64{
	100, 125, 150, 175, 200, 225, 250, 300, 350, 400, 450,
}

// NewMetrics creates the instruments on mp
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Analyses, err = m.Int64Counter("pitchscope.analyses",
		metric.WithDescription("Finished analyses by outcome."),
	); err != nil {
		return nil, err
	}
	if met.AnalysisDuration, err = m.Float64Histogram("pitchscope.analysis.duration",
		metric.WithDescription("Latency of decode and analysis per upload."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.UploadSize, err = m.Int64Histogram("pitchscope.upload.size",
		metric.WithDescription("Size of uploaded recordings."),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if met.PitchFrequency, err = m.Float64Histogram("pitchscope.pitch.frequency",
		metric.WithDescription("Estimated pitch frequency by label."),
		metric.WithUnit("Hz"),
		metric.WithExplicitBucketBoundaries(pitchBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// RecordAnalysis records one finished upload. pitchHz is nil when no estimate exists.
func (m *Metrics) RecordAnalysis(ctx context.Context, outcome string, size int, elapsed time.Duration, pitchHz *float64, label string) {
	if m == nil {
		return
	}
	m.Analyses.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.AnalysisDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
	m.UploadSize.Record(ctx, int64(size))
	if pitchHz != nil {
		m.PitchFrequency.Record(ctx, *pitchHz, metric.WithAttributes(attribute.String("label", label)))
	}
}
