package dashboard

import (
	"github.com/gin-gonic/gin"

	"github.com/lilistrocel/ShroomLab/internal/app/domain"
	"github.com/lilistrocel/ShroomLab/internal/app/domain/auth"
	"github.com/lilistrocel/ShroomLab/internal/app/domain/health"
	"github.com/lilistrocel/ShroomLab/internal/app/middleware"
	"github.com/lilistrocel/ShroomLab/internal/app/models"
	"github.com/lilistrocel/ShroomLab/internal/app/pages"
	"github.com/lilistrocel/ShroomLab/internal/app/session"
)

type DashboardHandlers struct {
	*domain.BaseHandler
	services []health.Target
	links    []models.ServiceLink
}

func NewDashboardHandlers(base *domain.BaseHandler, services []health.Target, links []models.ServiceLink) *DashboardHandlers {
	return &DashboardHandlers{BaseHandler: base, services: services, links: links}
}

// ShowDashboard must run behind auth.RequireSession.
func (h *DashboardHandlers) ShowDashboard(c *gin.Context) {
	profile := middleware.GetProfileFromContext(c)
	if profile == nil {
		middleware.HandleAuthRedirect(c, auth.LoginRoute)
		return
	}

	props := pages.DashboardProps{
		Profile:      *profile,
		Services:     h.services,
		QuickActions: models.QuickActions,
		Links:        h.links,
	}
	if s, ok := auth.SessionFromContext(c); ok {
		if exp, ok := session.Expiry(s.TokenValue); ok {
			props.ExpiresAt = &exp
		}
	}

	h.RenderPage(c, "Dashboard - ShroomLab", "Dashboard", pages.DashboardPage(props))
}
