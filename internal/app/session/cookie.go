package session

import (
	"github.com/gin-contrib/sessions"
	"go.uber.org/zap"
)

// Cookie keeps the credential inside the gin session cookie, which is the
// server-rendered equivalent of browser local storage. A Cookie is bound to
// one request and must not be shared between goroutines. Its generation
// counts mutations made through this value only and starts at 0 on every
// request; staleness across requests needs the Cache backend.
type Cookie struct {
	sess   sessions.Session
	logger *zap.Logger
	gen    uint64
}

func NewCookie(sess sessions.Session, logger *zap.Logger) *Cookie {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cookie{sess: sess, logger: logger}
}

func (c *Cookie) Read() (Session, bool) {
	s := Session{
		TokenValue: stringValue(c.sess.Get(KeyAccessToken)),
		TokenType:  stringValue(c.sess.Get(KeyTokenType)),
	}
	if !s.Valid() {
		return Session{}, false
	}
	return s, true
}

func (c *Cookie) Write(s Session) {
	c.sess.Set(KeyAccessToken, s.TokenValue)
	c.sess.Set(KeyTokenType, s.TokenType)
	c.gen++
	c.save("write")
}

func (c *Cookie) Clear() {
	if c.sess.Get(KeyAccessToken) == nil && c.sess.Get(KeyTokenType) == nil {
		return
	}
	c.sess.Delete(KeyAccessToken)
	c.sess.Delete(KeyTokenType)
	c.gen++
	c.save("clear")
}

func (c *Cookie) Generation() uint64 {
	return c.gen
}

func (c *Cookie) save(op string) {
	if err := c.sess.Save(); err != nil {
		c.logger.Error("Failed to save session cookie", zap.String("op", op), zap.Error(err))
	}
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}
