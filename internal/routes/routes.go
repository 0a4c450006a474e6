package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lilistrocel/ShroomLab/internal/app/domain"
	"github.com/lilistrocel/ShroomLab/internal/app/domain/auth"
	"github.com/lilistrocel/ShroomLab/internal/app/domain/dashboard"
	"github.com/lilistrocel/ShroomLab/internal/app/domain/health"
	"github.com/lilistrocel/ShroomLab/internal/app/domain/home"
	"github.com/lilistrocel/ShroomLab/internal/app/domain/status"
	"github.com/lilistrocel/ShroomLab/internal/app/models"
	"github.com/lilistrocel/ShroomLab/internal/pkg/config"
)

const GatewayService = "gateway"

type AppHandlers struct {
	Home      *home.HomeHandlers
	Auth      *auth.AuthHandlers
	Dashboard *dashboard.DashboardHandlers
	Status    *status.StatusHandlers

	requireSession gin.HandlerFunc
}

// Dependencies are the outbound collaborators of the web surface.
type Dependencies struct {
	Auth   auth.Service
	Prober *health.Prober
	Links  []models.ServiceLink
	Guard  auth.GuardOptions
}

// Setup wires the gateway clients from cfg and registers every route. A
// session Store must already be bound to the request context.
func Setup(r *gin.Engine, cfg *config.Config, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	deps := Dependencies{
		Auth:   auth.NewClient(cfg.Services.APIGateway, cfg.Services.Timeout, log.Named("auth")),
		Prober: health.NewProber(ServiceTargets(cfg.Services), cfg.Services.Timeout, log.Named("health")),
		Links:  ServiceLinks(cfg.Links),
		Guard:  auth.GuardOptions{Strict: cfg.Session.Strict},
	}
	SetupWith(r, deps, log)
}

func SetupWith(r *gin.Engine, deps Dependencies, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	setupRouter(r, setupDependencies(deps, log))
}

func setupDependencies(deps Dependencies, log *zap.Logger) *AppHandlers {
	baseHandler := domain.NewBaseHandler(log)

	return &AppHandlers{
		Home:           home.NewHomeHandlers(baseHandler, GatewayService, deps.Links),
		Auth:           auth.NewAuthHandlers(baseHandler, deps.Auth),
		Dashboard:      dashboard.NewDashboardHandlers(baseHandler, deps.Prober.Targets(), deps.Links),
		Status:         status.NewStatusHandlers(baseHandler, deps.Prober),
		requireSession: auth.RequireSession(deps.Auth, deps.Guard, log.Named("guard")),
	}
}

func setupRouter(r *gin.Engine, h *AppHandlers) {
	r.GET("/healthz", h.Status.Healthz)

	public := r.Group("/")
	{
		public.GET("/", h.Home.ShowHomePage)
		public.GET(auth.LoginRoute, h.Auth.ShowLogin)
		public.POST(auth.LoginRoute, h.Auth.Login)
		public.POST("/logout", h.Auth.Logout)
	}

	// Status fragments are informational and never consult the session.
	statusGroup := r.Group("/")
	{
		statusGroup.GET("/status/:service", h.Status.Fragment)
		statusGroup.GET("/api/status", h.Status.All)
	}

	protected := r.Group("/")
	protected.Use(h.requireSession)
	{
		protected.GET(auth.DashboardRoute, h.Dashboard.ShowDashboard)
	}
}

// ServiceTargets lists the backends shown in the system status card, gateway first.
func ServiceTargets(s config.ServicesConfig) []health.Target {
	return []health.Target{
		{Name: GatewayService, Label: "API Gateway", BaseURL: s.APIGateway},
		{Name: "iot", Label: "IoT Service", BaseURL: s.IoT},
		{Name: "business", Label: "Business Service", BaseURL: s.Business},
		{Name: "analytics", Label: "Analytics Service", BaseURL: s.Analytics},
	}
}

func ServiceLinks(l config.LinksConfig) []models.ServiceLink {
	return []models.ServiceLink{
		{Name: "API Gateway", URL: l.APIDocs, Description: "Main API documentation"},
		{Name: "InfluxDB UI", URL: l.InfluxUI, Description: "Time-series database"},
	}
}
