package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != LivenessPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func closed() string {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name    string
		baseURL func(t *testing.T) string
		state   State
		label   string
	}{
		{"2xx is connected", func(t *testing.T) string { return serve(t, http.StatusOK) }, StateConnected, "Connected"},
		{"204 is connected", func(t *testing.T) string { return serve(t, http.StatusNoContent) }, StateConnected, "Connected"},
		{"5xx is degraded", func(t *testing.T) string { return serve(t, http.StatusInternalServerError) }, StateDegraded, "Issues detected"},
		{"unreachable is disconnected", func(t *testing.T) string { return closed() }, StateDisconnected, "Disconnected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := Target{Name: "gateway", BaseURL: tt.baseURL(t) + "/"}
			p := NewProber([]Target{target}, time.Second, nil)

			res := p.Probe(context.Background(), p.Targets()[0])

			assert.Equal(t, tt.state, res.State)
			assert.Equal(t, tt.label, res.State.Label())
			assert.Equal(t, tt.state != StateConnected, res.Err != nil)
		})
	}
}

func TestCheckingLabel(t *testing.T) {
	assert.Equal(t, "Checking…", StateChecking.Label())
}

func TestProbeAllKeepsOrder(t *testing.T) {
	targets := []Target{
		{Name: "gateway", BaseURL: serve(t, http.StatusOK)},
		{Name: "iot", BaseURL: closed()},
		{Name: "business", BaseURL: serve(t, http.StatusBadGateway)},
		{Name: "analytics", BaseURL: serve(t, http.StatusOK)},
	}
	p := NewProber(targets, time.Second, nil)

	results := p.ProbeAll(context.Background())

	require.Len(t, results, 4)
	want := []State{StateConnected, StateDisconnected, StateDegraded, StateConnected}
	for i, r := range results {
		assert.Equal(t, targets[i].Name, r.Target.Name)
		assert.Equal(t, want[i], r.State)
	}
}

func TestProberTargets(t *testing.T) {
	in := []Target{{Name: "gateway", BaseURL: "http://gw/"}}
	p := NewProber(in, time.Second, nil)

	assert.Equal(t, "http://gw/", in[0].BaseURL)
	got, ok := p.Target("gateway")
	require.True(t, ok)
	assert.Equal(t, "http://gw", got.BaseURL)
	_, ok = p.Target("missing")
	assert.False(t, ok)
}

func TestProbeHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewProber([]Target{{Name: "gateway", BaseURL: serve(t, http.StatusOK)}}, time.Second, nil)

	res := p.Probe(ctx, p.Targets()[0])

	assert.Equal(t, StateDisconnected, res.State)
}
