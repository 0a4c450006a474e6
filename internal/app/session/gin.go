package session

import (
	"crypto/sha256"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/crypto/hkdf"
)

const (
	CookieName = "shroomlab_session"
	contextKey = "session_store"
)

// CookieOptions configures the carrier cookie.
type CookieOptions struct {
	Secret string
	MaxAge time.Duration
	Secure bool
}

// DeriveKeys expands the configured secret into the hash and block keys the
// secure cookie codec expects.
func DeriveKeys(secret string) (hashKey, blockKey []byte, err error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("shroomlab-web session cookie"))
	hashKey = make([]byte, 32)
	blockKey = make([]byte, 32)
	if _, err = io.ReadFull(r, hashKey); err != nil {
		return nil, nil, err
	}
	if _, err = io.ReadFull(r, blockKey); err != nil {
		return nil, nil, err
	}
	return hashKey, blockKey, nil
}

// NewCookieStore builds the gin-contrib cookie store carrying the session.
func NewCookieStore(opts CookieOptions) (sessions.Store, error) {
	hashKey, blockKey, err := DeriveKeys(opts.Secret)
	if err != nil {
		return nil, err
	}
	store := cookie.NewStore(hashKey, blockKey)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(opts.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// Binder decides which Store a request gets.
type Binder func(c *gin.Context) Store

// CookieBinder keeps the credential in the cookie itself.
func CookieBinder(logger *zap.Logger) Binder {
	return func(c *gin.Context) Store {
		return NewCookie(sessions.Default(c), logger)
	}
}

// CacheBinder keeps the credential server-side in table.
func CacheBinder(table *cache.Cache, logger *zap.Logger) Binder {
	return func(c *gin.Context) Store {
		return NewCache(table, sessions.Default(c), logger)
	}
}

// Middleware attaches a Store to every request. It must run after
// sessions.Sessions.
func Middleware(bind Binder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKey, bind(c))
		c.Next()
	}
}

// With attaches an explicit Store, which is how tests inject fakes.
func With(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKey, store)
		c.Next()
	}
}

// FromContext returns the request's Store. A request that skipped the
// middleware gets an empty in-memory store so it is always redirected.
func FromContext(c *gin.Context) Store {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(Store); ok {
			return s
		}
	}
	return NewMemory()
}
