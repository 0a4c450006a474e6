package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lilistrocel/ShroomLab/internal/app/domain"
	"github.com/lilistrocel/ShroomLab/internal/app/domain/health"
	"github.com/lilistrocel/ShroomLab/internal/app/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func backend(t *testing.T, status int) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, health.LivenessPath, r.URL.Path)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func deadBackend() string {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func newRouter(store session.Store, targets ...health.Target) *gin.Engine {
	h := NewStatusHandlers(domain.NewBaseHandler(nil), health.NewProber(targets, time.Second, nil))
	r := gin.New()
	r.Use(session.With(store))
	r.GET("/status/:service", h.Fragment)
	r.GET("/api/status", h.All)
	r.GET("/healthz", h.Healthz)
	return r
}

func fragment(t *testing.T, r http.Handler, service string) (*httptest.ResponseRecorder, *goquery.Selection) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status/"+service, nil))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	return w, doc.Find("#status-" + service)
}

func TestFragment(t *testing.T) {
	t.Run("unreachable service shows disconnected and leaves the session alone", func(t *testing.T) {
		store := session.NewMemory()
		store.Write(session.Session{TokenValue: "t", TokenType: "k"})
		gen := store.Generation()
		r := newRouter(store, health.Target{Name: "gateway", Label: "API Gateway", BaseURL: deadBackend()})

		w, span := fragment(t, r, "gateway")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, string(health.StateDisconnected), span.AttrOr("data-state", ""))
		assert.True(t, strings.HasPrefix(span.Text(), "Disconnected"))

		got, ok := store.Read()
		require.True(t, ok)
		assert.Equal(t, session.Session{TokenValue: "t", TokenType: "k"}, got)
		assert.Equal(t, gen, store.Generation())
	})

	t.Run("healthy service shows connected", func(t *testing.T) {
		r := newRouter(session.NewMemory(), health.Target{Name: "iot", BaseURL: backend(t, http.StatusOK)})

		_, span := fragment(t, r, "iot")

		assert.Equal(t, string(health.StateConnected), span.AttrOr("data-state", ""))
	})

	t.Run("failing service shows issues detected", func(t *testing.T) {
		r := newRouter(session.NewMemory(), health.Target{Name: "business", BaseURL: backend(t, http.StatusServiceUnavailable)})

		_, span := fragment(t, r, "business")

		assert.Equal(t, string(health.StateDegraded), span.AttrOr("data-state", ""))
		assert.True(t, strings.HasPrefix(span.Text(), "Issues detected"))
	})

	t.Run("unknown service is not found", func(t *testing.T) {
		r := newRouter(session.NewMemory())

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status/nope", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAll(t *testing.T) {
	r := newRouter(session.NewMemory(),
		health.Target{Name: "gateway", Label: "API Gateway", BaseURL: backend(t, http.StatusOK)},
		health.Target{Name: "iot", Label: "IoT Service", BaseURL: deadBackend()},
		health.Target{Name: "analytics", Label: "Analytics Service", BaseURL: backend(t, http.StatusInternalServerError)},
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Services []ServiceStatus `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Services, 3)

	assert.Equal(t, "gateway", body.Services[0].Name)
	assert.Equal(t, health.StateConnected, body.Services[0].State)
	assert.Equal(t, http.StatusOK, body.Services[0].StatusCode)

	assert.Equal(t, "iot", body.Services[1].Name)
	assert.Equal(t, health.StateDisconnected, body.Services[1].State)
	assert.NotEmpty(t, body.Services[1].Error)

	assert.Equal(t, "analytics", body.Services[2].Name)
	assert.Equal(t, health.StateDegraded, body.Services[2].State)
	assert.Equal(t, "Issues detected", body.Services[2].Text)
}

func TestHealthz(t *testing.T) {
	r := newRouter(session.NewMemory())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"shroomlab-web"}`, w.Body.String())
}
