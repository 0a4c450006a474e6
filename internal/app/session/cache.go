package session

import (
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const keyClientID = "client_id"

// NewTable builds the server-side table used by Cache stores.
func NewTable(ttl time.Duration) *cache.Cache {
	return cache.New(ttl, 10*time.Minute)
}

// Cache keeps the credential in a process-local table. Only a random client
// id travels in the cookie. Entries expire with the table's TTL.
type Cache struct {
	table  *cache.Cache
	sess   sessions.Session
	logger *zap.Logger
}

func NewCache(table *cache.Cache, sess sessions.Session, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{table: table, sess: sess, logger: logger}
}

func (c *Cache) Read() (Session, bool) {
	id := c.clientID(false)
	if id == "" {
		return Session{}, false
	}
	v, found := c.table.Get(sessionKey(id))
	if !found {
		return Session{}, false
	}
	s, ok := v.(Session)
	if !ok || !s.Valid() {
		return Session{}, false
	}
	return s, true
}

func (c *Cache) Write(s Session) {
	id := c.clientID(true)
	c.table.SetDefault(sessionKey(id), s)
	c.bump(id)
}

func (c *Cache) Clear() {
	id := c.clientID(false)
	if id == "" {
		return
	}
	if _, found := c.table.Get(sessionKey(id)); !found {
		return
	}
	c.table.Delete(sessionKey(id))
	c.bump(id)
}

func (c *Cache) Generation() uint64 {
	id := c.clientID(false)
	if id == "" {
		return 0
	}
	v, found := c.table.Get(generationKey(id))
	if !found {
		return 0
	}
	gen, _ := v.(uint64)
	return gen
}

func (c *Cache) bump(id string) {
	key := generationKey(id)
	// The counter lives exactly as long as the session entry beside it.
	if err := c.table.Add(key, uint64(1), cache.DefaultExpiration); err == nil {
		return
	}
	gen, err := c.table.IncrementUint64(key, 1)
	if err != nil {
		c.logger.Warn("Failed to bump session generation", zap.Error(err))
		return
	}
	c.table.SetDefault(key, gen)
}

func (c *Cache) clientID(create bool) string {
	if id := stringValue(c.sess.Get(keyClientID)); id != "" {
		return id
	}
	if !create {
		return ""
	}
	id := uuid.NewString()
	c.sess.Set(keyClientID, id)
	if err := c.sess.Save(); err != nil {
		c.logger.Error("Failed to save session cookie", zap.Error(err))
	}
	return id
}

func sessionKey(id string) string    { return "session:" + id }
func generationKey(id string) string { return "generation:" + id }
