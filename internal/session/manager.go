package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lshigami/placementai/config"
	"github.com/rs/zerolog/log"
)

const contextKey = "session"

type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

func NewManager(store Store, cfg config.Session) *Manager {
	return &Manager{
		store:      store,
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
		secure:     cfg.SecureCookie,
		now:        time.Now,
	}
}

type handle struct {
	id      string
	staleID string
	state   *State
	// base is the state as loaded; nil when no record exists for id.
	base *State
	m    *Manager
}

// Middleware loads the caller's session before the handler runs and saves it
// afterwards.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		h := &handle{m: m}

		id, _ := c.Cookie(m.cookieName)
		if _, err := uuid.Parse(id); err != nil {
			id = ""
		}
		if id != "" {
			state, err := m.store.Load(ctx, id)
			switch {
			case err == nil && m.expired(state):
				h.staleID, id = id, ""
			case err == nil:
				h.id, h.state, h.base = id, state, state.clone()
			case errors.Is(err, ErrNotFound):
				// Unsaved anonymous session; keep the id.
				h.id = id
			default:
				log.Error().Err(err).Msg("Failed to load session")
				id = ""
			}
		}
		if h.state == nil {
			h.state = &State{}
		}
		if h.id == "" {
			h.id = uuid.NewString()
			m.setCookie(c, h.id)
		}

		c.Set(contextKey, h)
		c.Next()

		m.persist(context.WithoutCancel(ctx), h)
	}
}

// persist writes back only what the handler changed, so a slow request does
// not overwrite state saved by a faster one in the meantime.
func (m *Manager) persist(ctx context.Context, h *handle) {
	if h.staleID != "" {
		if err := m.store.Delete(ctx, h.staleID); err != nil {
			log.Error().Err(err).Msg("Failed to delete old session")
		}
	}
	if h.base == nil && h.state.empty() {
		return
	}
	if h.base != nil && h.state.equal(h.base) && !m.needsTouch(h.base) {
		return
	}

	now := m.now()
	err := m.store.Update(ctx, h.id, func(stored *State) *State {
		next := h.state
		if h.base != nil {
			if stored == nil {
				// Removed by a concurrent logout; do not bring it back.
				return nil
			}
			next = mergeInto(stored, h.base, h.state)
		}
		if next.empty() {
			return nil
		}
		next.UpdatedAt = now
		return next
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to save session")
	}
}

// needsTouch reports whether an unchanged session should still have its
// timestamp refreshed to keep it from expiring.
func (m *Manager) needsTouch(state *State) bool {
	return m.ttl > 0 && m.now().Sub(state.UpdatedAt) > m.ttl/2
}

func (m *Manager) expired(state *State) bool {
	return m.ttl > 0 && !state.UpdatedAt.IsZero() && m.now().Sub(state.UpdatedAt) > m.ttl
}

func (m *Manager) setCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, id, 0, "/", "", m.secure, true)
}

// FromContext returns the state loaded by Middleware. Without the middleware
// it returns a throwaway empty state.
func FromContext(c *gin.Context) *State {
	if h, ok := c.Get(contextKey); ok {
		return h.(*handle).state
	}
	return &State{}
}

// Regenerate moves the current state to a fresh session id. Call it when the
// caller's privilege changes, before writing the response.
func Regenerate(c *gin.Context) {
	v, ok := c.Get(contextKey)
	if !ok {
		return
	}
	h := v.(*handle)
	if h.staleID == "" {
		h.staleID = h.id
	}
	h.id = uuid.NewString()
	h.base = nil
	h.m.setCookie(c, h.id)
}
