package health

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lilistrocel/ShroomLab/internal/app/observability/metrics"
)

const LivenessPath = "/health"

// State is what the status text shows for a service.
type State string

const (
	StateChecking     State = "checking"
	StateConnected    State = "connected"
	StateDegraded     State = "degraded"
	StateDisconnected State = "disconnected"
)

func (s State) Label() string {
	switch s {
	case StateConnected:
		return "Connected"
	case StateDegraded:
		return "Issues detected"
	case StateDisconnected:
		return "Disconnected"
	default:
		return "Checking…"
	}
}

// Target is a backend whose liveness endpoint is probed.
type Target struct {
	Name    string
	Label   string
	BaseURL string
}

// Result is one probe outcome.
type Result struct {
	Target     Target
	State      State
	StatusCode int
	Latency    time.Duration
	Err        error
}

// Prober performs fire-and-forget liveness checks. It never touches the
// session and its results have no effect beyond display.
type Prober struct {
	targets    []Target
	httpClient *http.Client
	logger     *zap.Logger
}

func NewProber(targets []Target, timeout time.Duration, logger *zap.Logger) *Prober {
	if logger == nil {
		logger = zap.NewNop()
	}
	ts := make([]Target, len(targets))
	for i, t := range targets {
		t.BaseURL = strings.TrimRight(t.BaseURL, "/")
		ts[i] = t
	}
	return &Prober{
		targets: ts,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

func (p *Prober) Targets() []Target {
	out := make([]Target, len(p.targets))
	copy(out, p.targets)
	return out
}

// Target looks a configured target up by name.
func (p *Prober) Target(name string) (Target, bool) {
	for _, t := range p.targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

// Probe issues a single GET against the target's liveness endpoint.
func (p *Prober) Probe(ctx context.Context, t Target) Result {
	start := time.Now()
	res := p.probe(ctx, t)
	res.Latency = time.Since(start)

	m := metrics.Get()
	attrs := metric.WithAttributes(
		attribute.String("service", t.Name),
		attribute.String("state", string(res.State)),
	)
	m.HealthProbesTotal.Add(ctx, 1, attrs)
	m.HealthProbeDuration.Record(ctx, res.Latency.Seconds(), attrs)

	return res
}

func (p *Prober) probe(ctx context.Context, t Target) Result {
	res := Result{Target: t}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.BaseURL+LivenessPath, nil)
	if err != nil {
		res.State = StateDisconnected
		res.Err = fmt.Errorf("failed to create health check request: %w", err)
		return res
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Debug("Health check failed", zap.String("service", t.Name), zap.Error(err))
		res.State = StateDisconnected
		res.Err = fmt.Errorf("failed to send health check request: %w", err)
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	res.StatusCode = resp.StatusCode
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		res.State = StateConnected
		return res
	}

	p.logger.Debug("Health check returned non-2xx", zap.String("service", t.Name), zap.Int("status", resp.StatusCode))
	res.State = StateDegraded
	res.Err = fmt.Errorf("%s health check failed with status %d", t.Name, resp.StatusCode)
	return res
}

// ProbeAll probes every configured target concurrently. Results keep the
// configured order.
func (p *Prober) ProbeAll(ctx context.Context) []Result {
	results := make([]Result, len(p.targets))

	var g errgroup.Group
	for i, t := range p.targets {
		g.Go(func() error {
			results[i] = p.Probe(ctx, t)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
