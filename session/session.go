// Package session keeps the authenticated user id in an opaque server-side
// session referenced by an HTTP-only cookie.
package session

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"mealmatch/config"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "session").Logger()

const (
	CookieName = "mealmatch_session"
	userIDKey  = "uid"
)

// Manager wraps scs with the few session operations the API needs.
type Manager struct {
	*scs.SessionManager
	closers []func() error
}

// New builds a manager on the store named by cfg.SessionStore: "memory",
// "redis" or "database". The database store needs db.
func New(cfg config.Config, db *gorm.DB) (*Manager, error) {
	sm := scs.New()
	sm.Lifetime = cfg.SessionLifetime
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Path = "/"
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = cfg.CookieSecure

	m := &Manager{SessionManager: sm}

	switch cfg.SessionStore {
	case "", "memory":
		sm.Store = memstore.New()
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("redis session store: %w", err)
		}
		sm.Store = NewRedisStore(rdb)
		m.closers = append(m.closers, rdb.Close)
	case "database":
		if db == nil {
			return nil, fmt.Errorf("database session store: no database")
		}
		store, err := NewGormStore(db, 5*time.Minute)
		if err != nil {
			return nil, err
		}
		sm.Store = store
		m.closers = append(m.closers, store.Close)
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.SessionStore)
	}
	return m, nil
}

// Login binds the session to userID under a fresh token.
func (m *Manager) Login(ctx context.Context, userID uint) error {
	if err := m.RenewToken(ctx); err != nil {
		return err
	}
	m.Put(ctx, userIDKey, int(userID))
	return nil
}

// Logout discards the session. Calling it without a session is harmless.
func (m *Manager) Logout(ctx context.Context) error {
	return m.Destroy(ctx)
}

func (m *Manager) UserID(ctx context.Context) (uint, bool) {
	id := m.GetInt(ctx, userIDKey)
	if id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func (m *Manager) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
