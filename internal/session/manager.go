package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"maasai-craft/internal/checkout"
)

const CookieName = "maasai_session"

type Options struct {
	TTL          time.Duration
	CookieSecure bool
}

// Manager ties a browser cookie to a stored checkout.Session and makes sure
// only one request works on a given session at a time.
type Manager struct {
	store Store
	locks *keyedMutex
	opts  Options
	newID func() string
}

func NewManager(store Store, opts Options) *Manager {
	return &Manager{
		store: store,
		locks: newKeyedMutex(),
		opts:  opts,
		newID: uuid.NewString,
	}
}

// Acquire returns the caller's session, creating one (and setting the cookie)
// when the request has none or it has expired. The session stays locked until
// release is called; call Save before releasing to keep changes.
func (m *Manager) Acquire(w http.ResponseWriter, r *http.Request) (*checkout.Session, func(), error) {
	ctx := r.Context()

	if c, err := r.Cookie(CookieName); err == nil && validID(c.Value) {
		release := m.locks.lock(c.Value)
		s, err := m.store.Get(ctx, c.Value)
		switch {
		case err == nil:
			m.setCookie(w, s.ID)
			return s, release, nil
		case !errors.Is(err, ErrNotFound):
			release()
			return nil, nil, err
		}
		release()
	}

	id := m.newID()
	release := m.locks.lock(id)
	m.setCookie(w, id)
	return checkout.NewSession(id), release, nil
}

func (m *Manager) Save(ctx context.Context, s *checkout.Session) error {
	return m.store.Save(ctx, s)
}

func (m *Manager) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
