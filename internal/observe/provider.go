package observe

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Provider bundles the metric instruments with their scrape handler
type Provider struct {
	Metrics  *Metrics
	Handler  http.Handler
	Shutdown func(context.Context) error
}

// InitProvider sets up a MeterProvider backed by the Prometheus exporter.
// The exporter registers with the default Prometheus registry served by Handler.
func InitProvider() (*Provider, error) {
	promExp, err := promexporter.New()
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(promExp))

	met, err := NewMetrics(mp)
	if err != nil {
		_ = mp.Shutdown(context.Background())
		return nil, err
	}

	return &Provider{
		Metrics:  met,
		Handler:  promhttp.Handler(),
		Shutdown: mp.Shutdown,
	}, nil
}
