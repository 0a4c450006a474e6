package domain

import (
	"time"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/lilistrocel/ShroomLab/internal/app/middleware"
	"github.com/lilistrocel/ShroomLab/internal/app/models"
	"github.com/lilistrocel/ShroomLab/internal/app/observability/metrics"
	"github.com/lilistrocel/ShroomLab/internal/app/pages"
)

type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseHandler{Logger: logger}
}

func (h *BaseHandler) newLayoutData(c *gin.Context, title, activeNav string, content templ.Component) models.LayoutTempl {
	user := middleware.GetProfileFromContext(c)
	nav := models.OfflineNav
	if user != nil {
		nav = models.MainNav
	}
	return models.LayoutTempl{
		Title:     title,
		Content:   content,
		Nav:       nav,
		ActiveNav: activeNav,
		User:      user,
	}
}

// Render writes a component as-is with the given status.
func (h *BaseHandler) Render(c *gin.Context, status int, component templ.Component) {
	start := time.Now()
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		h.Logger.Error("Failed to render component", zap.String("path", c.FullPath()), zap.Error(err))
	}
	metrics.Get().TemplateRenderDuration.Record(c.Request.Context(), time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("route", c.FullPath())))
}

// RenderPage renders the full layout, or just the content for htmx requests.
func (h *BaseHandler) RenderPage(c *gin.Context, title, activeNav string, content templ.Component) {
	h.RenderPageStatus(c, 200, title, activeNav, content)
}

func (h *BaseHandler) RenderPageStatus(c *gin.Context, status int, title, activeNav string, content templ.Component) {
	if middleware.IsHTMX(c) {
		h.Render(c, status, content)
		return
	}
	h.Render(c, status, pages.LayoutPage(h.newLayoutData(c, title, activeNav, content)))
}
