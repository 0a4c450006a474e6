package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lilistrocel/ShroomLab/internal/app/domain"
	"github.com/lilistrocel/ShroomLab/internal/app/middleware"
	"github.com/lilistrocel/ShroomLab/internal/app/models"
	"github.com/lilistrocel/ShroomLab/internal/app/pages"
	"github.com/lilistrocel/ShroomLab/internal/app/session"
)

const (
	LoginRoute     = "/login"
	DashboardRoute = "/dashboard"

	MsgFieldsRequired = "Username and password are required"
	MsgNetworkError   = "Network error. Please check if the server is running."
)

type AuthHandlers struct {
	*domain.BaseHandler
	service Service
}

func NewAuthHandlers(base *domain.BaseHandler, service Service) *AuthHandlers {
	return &AuthHandlers{
		BaseHandler: base,
		service:     service,
	}
}

func (h *AuthHandlers) ShowLogin(c *gin.Context) {
	h.RenderPage(c, "Login - ShroomLab", "Sign in", pages.LoginPage(pages.LoginProps{}))
}

func (h *AuthHandlers) Login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBind(&creds); err != nil {
		h.Logger.Warn("Missing username or password", zap.Error(err))
		h.loginFailed(c, http.StatusBadRequest, creds.Username, MsgFieldsRequired)
		return
	}

	s, err := h.service.Login(c.Request.Context(), creds.Username, creds.Password)
	if err != nil {
		var authErr *Error
		switch {
		case errors.As(err, &authErr) && authErr.Kind == KindNetwork:
			h.loginFailed(c, http.StatusBadGateway, creds.Username, MsgNetworkError)
		case errors.As(err, &authErr) && authErr.Kind == KindCredential:
			h.loginFailed(c, http.StatusUnauthorized, creds.Username, authErr.Message)
		default:
			h.Logger.Error("Login failed unexpectedly", zap.Error(err))
			h.loginFailed(c, http.StatusInternalServerError, creds.Username, MsgLoginFailed)
		}
		return
	}

	session.FromContext(c).Write(s)

	h.Logger.Info("Successful login", zap.String("username", creds.Username))
	redirect(c, DashboardRoute)
}

// loginFailed re-renders the form with an inline message. htmx does not swap
// error responses, so its fragment is sent with 200.
func (h *AuthHandlers) loginFailed(c *gin.Context, status int, username, message string) {
	if middleware.IsHTMX(c) {
		c.Header("HX-Retarget", "#login-response")
		h.Render(c, http.StatusOK, pages.LoginError(message))
		return
	}
	h.RenderPageStatus(c, status, "Login - ShroomLab", "Sign in",
		pages.LoginPage(pages.LoginProps{Username: username, Error: message}))
}

func (h *AuthHandlers) Logout(c *gin.Context) {
	session.FromContext(c).Clear()
	h.Logger.Info("User logout")
	redirect(c, LoginRoute)
}

func redirect(c *gin.Context, url string) {
	if middleware.IsHTMX(c) {
		c.Header("HX-Redirect", url)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, url)
}
