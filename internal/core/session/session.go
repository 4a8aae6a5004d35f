package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
)

// ErrNoSession signals a wiring mistake: cart state was requested
// from a context the session middleware never saw.
var ErrNoSession = errors.New("cart accessed outside of an active session")

// A Session is the state of one shopper: the cart and saved filter criteria.
type Session struct {
	id       string
	mu       sync.Mutex
	cart     *domain.Cart
	criteria domain.FilterCriteria
	lastSeen time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		id:       id,
		cart:     domain.NewCart(),
		lastSeen: now,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Do runs fn with exclusive access to the cart.
// fn must not retain the cart.
func (s *Session) Do(fn func(c *domain.Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cart)
}

func (s *Session) Criteria() domain.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

func (s *Session) SetCriteria(c domain.FilterCriteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c
}

func (s *Session) ResetCriteria() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Reset()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// A Registry holds live sessions in memory.
//
// Sessions idle longer than the idle timeout are dropped by [Registry.Sweep].
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration
	now         func() time.Time
	newID       func() string
}

func NewRegistry(idleTimeout time.Duration) *Registry {
	return &Registry{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Open returns the live session with id, or starts a new one
// when id is empty or unknown. created reports the latter.
func (r *Registry) Open(id string) (s *Session, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if s, ok := r.sessions[id]; ok && id != "" {
		s.touch(now)
		return s, false
	}

	s = newSession(r.newID(), now)
	r.sessions[s.id] = s
	return s, true
}

// Get returns the live session with id and marks it as seen.
// Unlike [Registry.Open] it never starts a session.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		s.touch(r.now())
	}
	return s, ok
}

func (r *Registry) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops idle sessions and reports how many were dropped.
// A non-positive idle timeout disables expiry.
func (r *Registry) Sweep() int {
	if r.idleTimeout <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var n int
	for id, s := range r.sessions {
		if s.idleSince(now) > r.idleTimeout {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps idle sessions until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	const op = "Registry.Run"
	log := slog.With("op", op)

	if r.idleTimeout <= 0 || interval <= 0 {
		log.Info("session expiry disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("running", "idleTimeout", r.idleTimeout, "interval", interval)
	for {
		select {
		case <-ctx.Done():
			log.Info("stopped")
			return
		case <-ticker.C:
			if n := r.Sweep(); n != 0 {
				log.Debug("expired sessions dropped", "n", n, "live", r.Len())
			}
		}
	}
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// MustFromContext returns the session of ctx.
// It panics with [ErrNoSession] when there is none.
func MustFromContext(ctx context.Context) *Session {
	s, ok := FromContext(ctx)
	if !ok {
		panic(ErrNoSession)
	}
	return s
}
