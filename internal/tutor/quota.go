package tutor

import "sync"

// DefaultMessageLimit is the number of user turns a conversation allows.
const DefaultMessageLimit = 5

// Quota counts user turns on the client side. Once spent, no more turns
// may be submitted; the history stays readable.
type Quota struct {
	mu    sync.Mutex
	limit int
	used  int
}

// NewQuota returns a quota of limit turns. limit <= 0 means
// DefaultMessageLimit.
func NewQuota(limit int) *Quota {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	return &Quota{limit: limit}
}

// Use consumes one turn or returns ErrQuotaExhausted.
func (q *Quota) Use() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.used >= q.limit {
		return ErrQuotaExhausted
	}
	q.used++
	return nil
}

// Remaining returns how many turns are left.
func (q *Quota) Remaining() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.limit - q.used
}

// Exhausted reports whether all turns were used.
func (q *Quota) Exhausted() bool {
	return q.Remaining() <= 0
}
