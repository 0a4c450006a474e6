package metrics

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	LoginAttemptsTotal     metric.Int64Counter
	ProfileLookupsTotal    metric.Int64Counter
	GuardOutcomesTotal     metric.Int64Counter
	HealthProbesTotal      metric.Int64Counter
	HealthProbeDuration    metric.Float64Histogram
	TemplateRenderDuration metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments from the global MeterProvider.
// Until a provider is installed the global one is a no-op, so it is safe to
// call from tests.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("shroomlab-web")
		var err error
		m := &AppMetrics{}

		m.LoginAttemptsTotal, err = meter.Int64Counter(
			"auth_login_total",
			metric.WithDescription("Login exchanges against the token endpoint by outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_login_total: %v", err)
		}

		m.ProfileLookupsTotal, err = meter.Int64Counter(
			"auth_profile_lookups_total",
			metric.WithDescription("Identity lookups against the me endpoint by outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_profile_lookups_total: %v", err)
		}

		m.GuardOutcomesTotal, err = meter.Int64Counter(
			"route_guard_outcomes_total",
			metric.WithDescription("Final route guard state per protected page load"),
			metric.WithUnit("{page}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create route_guard_outcomes_total: %v", err)
		}

		m.HealthProbesTotal, err = meter.Int64Counter(
			"health_probe_total",
			metric.WithDescription("Liveness probes by service and resulting state"),
			metric.WithUnit("{probe}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create health_probe_total: %v", err)
		}

		m.HealthProbeDuration, err = meter.Float64Histogram(
			"health_probe_duration_seconds",
			metric.WithDescription("Duration of liveness probes in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create health_probe_duration_seconds: %v", err)
		}

		m.TemplateRenderDuration, err = meter.Float64Histogram(
			"template_render_duration_seconds",
			metric.WithDescription("Duration of template rendering in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create template_render_duration_seconds: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the instruments, creating them on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

// Count adds one to counter with the given string attributes as key/value pairs.
func Count(ctx context.Context, counter metric.Int64Counter, kv ...string) {
	counter.Add(ctx, 1, metric.WithAttributes(pairs(kv)...))
}

func pairs(kv []string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, attribute.String(kv[i], kv[i+1]))
	}
	return attrs
}
