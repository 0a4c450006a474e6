package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lilistrocel/ShroomLab/internal/app/domain"
	"github.com/lilistrocel/ShroomLab/internal/app/middleware"
	"github.com/lilistrocel/ShroomLab/internal/app/pages"
	"github.com/lilistrocel/ShroomLab/internal/app/session"
)

const sessionContextKey = "guard_session"

// RequireSession runs the Guard once per request against the request's store.
// Handlers after it may rely on GetProfileFromContext being non-nil.
func RequireSession(service Service, opts GuardOptions, logger *zap.Logger) gin.HandlerFunc {
	base := domain.NewBaseHandler(logger)
	return func(c *gin.Context) {
		guard := NewGuard(session.FromContext(c), service, opts, base.Logger)
		res := guard.Check(c.Request.Context())

		switch res.State {
		case StateAuthenticated:
			// guarded pages carry the profile; keep them out of shared and back-button caches
			c.Header("Cache-Control", "no-store")
			middleware.SetProfile(c, res.Profile)
			c.Set(sessionContextKey, res.Session)
			c.Next()
		case StateUnavailable:
			base.RenderPageStatus(c, http.StatusServiceUnavailable, "Unavailable - ShroomLab", "",
				pages.UnavailablePage(c.Request.URL.RequestURI()))
			c.Abort()
		default:
			target := LoginRoute
			if res.Reason == ReasonStale {
				target = c.Request.URL.RequestURI()
			}
			middleware.HandleAuthRedirect(c, target)
		}
	}
}

// SessionFromContext returns the session RequireSession validated.
func SessionFromContext(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return session.Session{}, false
	}
	s, ok := v.(session.Session)
	return s, ok
}
