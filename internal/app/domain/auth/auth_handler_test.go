package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lilistrocel/ShroomLab/internal/app/domain"
	"github.com/lilistrocel/ShroomLab/internal/app/middleware"
	"github.com/lilistrocel/ShroomLab/internal/app/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(store session.Store, svc Service, opts GuardOptions) *gin.Engine {
	h := NewAuthHandlers(domain.NewBaseHandler(nil), svc)

	r := gin.New()
	r.Use(session.With(store))
	r.GET(LoginRoute, h.ShowLogin)
	r.POST(LoginRoute, h.Login)
	r.POST("/logout", h.Logout)
	r.GET(DashboardRoute, RequireSession(svc, opts, nil), func(c *gin.Context) {
		c.String(http.StatusOK, "hello "+middleware.GetProfileFromContext(c).Username)
	})
	return r
}

func postLogin(r http.Handler, username, password string, htmx bool) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, LoginRoute, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return strings.TrimSpace(doc.Find("#login-error").Text())
}

func tokenGateway(t *testing.T) *httptest.Server {
	return newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("username") == "admin" && r.PostForm.Get("password") == "admin123" {
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "abc", "token_type": "bearer"})
			return
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
	}, nil)
}

func TestLoginHandler(t *testing.T) {
	t.Run("valid credentials store the session and go to the dashboard", func(t *testing.T) {
		store := session.NewMemory()
		r := newRouter(store, NewClient(tokenGateway(t).URL, time.Second, nil), GuardOptions{})

		w := postLogin(r, "admin", "admin123", false)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, DashboardRoute, w.Header().Get("Location"))
		got, ok := store.Read()
		require.True(t, ok)
		assert.Equal(t, session.Session{TokenValue: "abc", TokenType: "bearer"}, got)
	})

	t.Run("htmx login redirects through the header", func(t *testing.T) {
		store := session.NewMemory()
		r := newRouter(store, NewClient(tokenGateway(t).URL, time.Second, nil), GuardOptions{})

		w := postLogin(r, "admin", "admin123", true)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, DashboardRoute, w.Header().Get("HX-Redirect"))
	})

	t.Run("wrong password shows the server detail", func(t *testing.T) {
		store := session.NewMemory()
		r := newRouter(store, NewClient(tokenGateway(t).URL, time.Second, nil), GuardOptions{})

		w := postLogin(r, "admin", "wrong", false)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Incorrect username or password", loginError(t, w))
		_, ok := store.Read()
		assert.False(t, ok)
	})

	t.Run("htmx failure returns only the fragment", func(t *testing.T) {
		store := session.NewMemory()
		r := newRouter(store, NewClient(tokenGateway(t).URL, time.Second, nil), GuardOptions{})

		w := postLogin(r, "admin", "wrong", true)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "#login-response", w.Header().Get("HX-Retarget"))
		assert.NotContains(t, w.Body.String(), "<form")
		assert.Equal(t, "Incorrect username or password", loginError(t, w))
	})

	t.Run("token without a type is reported instead of stored", func(t *testing.T) {
		srv := newGateway(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "abc", "token_type": ""})
		}, nil)
		store := session.NewMemory()
		r := newRouter(store, NewClient(srv.URL, time.Second, nil), GuardOptions{})

		w := postLogin(r, "admin", "admin123", false)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Header().Get("Location"))
		assert.Equal(t, MsgLoginFailed, loginError(t, w))
		_, ok := store.Read()
		assert.False(t, ok)
		assert.Zero(t, store.Generation())
	})

	t.Run("unreachable gateway shows the network message", func(t *testing.T) {
		store := session.NewMemory()
		r := newRouter(store, NewClient(unreachableURL(t), time.Second, nil), GuardOptions{})

		w := postLogin(r, "admin", "admin123", false)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, MsgNetworkError, loginError(t, w))
		_, ok := store.Read()
		assert.False(t, ok)
	})

	t.Run("missing fields never reach the gateway", func(t *testing.T) {
		var calls atomic.Int32
		srv := newGateway(t, func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
		}, nil)
		r := newRouter(session.NewMemory(), NewClient(srv.URL, time.Second, nil), GuardOptions{})

		w := postLogin(r, "admin", "", false)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, MsgFieldsRequired, loginError(t, w))
		assert.Zero(t, calls.Load())
	})

	t.Run("login page renders the form", func(t *testing.T) {
		r := newRouter(session.NewMemory(), new(MockService), GuardOptions{})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, LoginRoute, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `id="login-form"`)
	})
}

func TestLogoutHandler(t *testing.T) {
	store := storeWith(&stored)
	r := newRouter(store, new(MockService), GuardOptions{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, LoginRoute, w.Header().Get("Location"))
	_, ok := store.Read()
	assert.False(t, ok)
}

func TestRequireSession(t *testing.T) {
	get := func(r http.Handler, htmx bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, DashboardRoute, nil)
		if htmx {
			req.Header.Set("HX-Request", "true")
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("identity rejected clears the session and redirects", func(t *testing.T) {
		srv := newGateway(t, nil, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		})
		store := storeWith(&stored)
		r := newRouter(store, NewClient(srv.URL, time.Second, nil), GuardOptions{})

		w := get(r, false)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, LoginRoute, w.Header().Get("Location"))
		_, ok := store.Read()
		assert.False(t, ok)
	})

	t.Run("htmx requests get HX-Redirect", func(t *testing.T) {
		r := newRouter(session.NewMemory(), new(MockService), GuardOptions{})

		w := get(r, true)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, LoginRoute, w.Header().Get("HX-Redirect"))
	})

	t.Run("authenticated request reaches the handler", func(t *testing.T) {
		svc := new(MockService)
		svc.On("FetchProfile", mock.Anything, stored).Return(profile, nil).Once()
		r := newRouter(storeWith(&stored), svc, GuardOptions{})

		w := get(r, false)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "hello admin", w.Body.String())
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	})

	t.Run("strict mode renders the unavailable page", func(t *testing.T) {
		svc := new(MockService)
		svc.On("FetchProfile", mock.Anything, stored).
			Return(profile, &Error{Kind: KindNetwork, Message: MsgNetworkUnreachable}).Once()
		store := storeWith(&stored)
		r := newRouter(store, svc, GuardOptions{Strict: true})

		w := get(r, false)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `id="unavailable"`)
		assert.NotContains(t, w.Body.String(), "Ada Admin")
		_, ok := store.Read()
		assert.True(t, ok)
	})
}
