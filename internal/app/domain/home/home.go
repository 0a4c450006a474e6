package home

import (
	"github.com/gin-gonic/gin"

	"github.com/lilistrocel/ShroomLab/internal/app/domain"
	"github.com/lilistrocel/ShroomLab/internal/app/models"
	"github.com/lilistrocel/ShroomLab/internal/app/pages"
)

type HomeHandlers struct {
	*domain.BaseHandler
	gateway string
	links   []models.ServiceLink
}

// NewHomeHandlers builds the public landing page. gateway names the probe
// target whose status is shown.
func NewHomeHandlers(base *domain.BaseHandler, gateway string, links []models.ServiceLink) *HomeHandlers {
	return &HomeHandlers{BaseHandler: base, gateway: gateway, links: links}
}

func (h *HomeHandlers) ShowHomePage(c *gin.Context) {
	content := pages.PublicLandingPage(pages.LandingProps{
		GatewayService: h.gateway,
		Links:          h.links,
	})
	h.RenderPage(c, "ShroomLab - Mushroom Farm Management", "Home", content)
}
