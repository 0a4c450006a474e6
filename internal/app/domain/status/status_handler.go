package status

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lilistrocel/ShroomLab/internal/app/domain"
	"github.com/lilistrocel/ShroomLab/internal/app/domain/health"
	"github.com/lilistrocel/ShroomLab/internal/app/models"
	"github.com/lilistrocel/ShroomLab/internal/app/pages"
)

// StatusHandlers expose the health probe. They never read the session.
type StatusHandlers struct {
	*domain.BaseHandler
	prober *health.Prober
}

func NewStatusHandlers(base *domain.BaseHandler, prober *health.Prober) *StatusHandlers {
	return &StatusHandlers{BaseHandler: base, prober: prober}
}

// ServiceStatus is the JSON shape of one probe result.
type ServiceStatus struct {
	Name       string       `json:"name"`
	Label      string       `json:"label"`
	State      health.State `json:"state"`
	Text       string       `json:"text"`
	StatusCode int          `json:"status_code,omitempty"`
	LatencyMS  int64        `json:"latency_ms"`
	Error      string       `json:"error,omitempty"`
}

func toStatus(r health.Result) ServiceStatus {
	s := ServiceStatus{
		Name:       r.Target.Name,
		Label:      r.Target.Label,
		State:      r.State,
		Text:       r.State.Label(),
		StatusCode: r.StatusCode,
		LatencyMS:  r.Latency.Milliseconds(),
	}
	if r.Err != nil {
		s.Error = r.Err.Error()
	}
	return s
}

// Fragment probes one service and swaps the resolved status text in.
func (h *StatusHandlers) Fragment(c *gin.Context) {
	name := c.Param("service")
	target, ok := h.prober.Target(name)
	if !ok {
		c.String(http.StatusNotFound, models.ErrUnknownService.Error())
		return
	}

	res := h.prober.Probe(c.Request.Context(), target)
	if res.Err != nil {
		h.Logger.Debug("Service not healthy", zap.String("service", name), zap.Error(res.Err))
	}
	h.Render(c, http.StatusOK, pages.StatusText(name, res.State))
}

// All probes every service concurrently.
func (h *StatusHandlers) All(c *gin.Context) {
	results := h.prober.ProbeAll(c.Request.Context())
	out := make([]ServiceStatus, 0, len(results))
	for _, r := range results {
		out = append(out, toStatus(r))
	}
	c.JSON(http.StatusOK, gin.H{"services": out})
}

// Healthz reports this process's own liveness.
func (h *StatusHandlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "shroomlab-web"})
}
