package diagnostic

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/abhisek/mathbuddy/internal/questionbank"
)

// SessionStore persists in-flight diagnostic sessions between requests.
// Get returns ErrNotFound for unknown or expired sessions.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Defaults for session stores.
const (
	DefaultSessionTTL     = 2 * time.Hour
	DefaultMaxSessions    = 10000
	defaultRedisKeyPrefix = "mathbuddy:diagnostic:"
)

// MemoryStore keeps sessions in a size-bounded LRU whose entries expire
// after a fixed TTL. It stores copies, so callers never share a *Session.
type MemoryStore struct {
	cache *expirable.LRU[string, *Session]
}

var _ SessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates a MemoryStore. Non-positive arguments select the
// defaults.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemoryStore{cache: expirable.NewLRU[string, *Session](size, nil, ttl)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s, ok := m.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return s.clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.cache.Add(s.ID, s.clone())
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.cache.Remove(id)
	return nil
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	return m.cache.Len()
}

func (s *Session) clone() *Session {
	c := *s
	c.Plan = make([]DomainQueue, len(s.Plan))
	for i, dq := range s.Plan {
		c.Plan[i] = DomainQueue{Domain: dq.Domain, Questions: slices.Clone(dq.Questions)}
	}
	c.Asked = maps.Clone(s.Asked)
	c.Correct = maps.Clone(s.Correct)
	c.Timings = make(map[questionbank.Domain][]float64, len(s.Timings))
	for d, ts := range s.Timings {
		c.Timings[d] = slices.Clone(ts)
	}
	if s.Current != nil {
		q := *s.Current
		c.Current = &q
	}
	return &c
}
