// Package credentials holds the fixed set of search API keys and hands them
// out in round-robin order.
package credentials

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// Credential is one slot of the pool. Index is its position in the
// configured order.
type Credential struct {
	Key     string
	Index   int
	limiter *rate.Limiter
}

// Wait blocks until the credential may be used for another request.
// Credentials without a limiter never wait.
func (c Credential) Wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// Pool rotates over a fixed ordered set of credentials. Next is safe for
// concurrent use: two pipeline runs never observe the same pointer value.
type Pool struct {
	mu    sync.Mutex
	slots []Credential
	next  int
}

// NewPool builds a pool from keys, dropping blank entries. perKeyRPS paces
// each credential independently; a value <= 0 disables pacing.
func NewPool(keys []string, perKeyRPS float64) *Pool {
	p := &Pool{}
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		c := Credential{Key: k, Index: len(p.slots)}
		if perKeyRPS > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perKeyRPS), 1)
		}
		p.slots = append(p.slots, c)
	}
	return p
}

// Len returns the number of configured credentials.
func (p *Pool) Len() int { return len(p.slots) }

// Empty reports whether no credentials are configured.
func (p *Pool) Empty() bool { return len(p.slots) == 0 }

// Next returns the next credential in round-robin order. ok is false when
// the pool is empty.
func (p *Pool) Next() (cred Credential, ok bool) {
	if len(p.slots) == 0 {
		return Credential{}, false
	}
	p.mu.Lock()
	cred = p.slots[p.next]
	p.next = (p.next + 1) % len(p.slots)
	p.mu.Unlock()
	return cred, true
}

// NextWhere returns the first credential, from the rotation pointer onward,
// that accept reports true for, and moves the pointer just past it. When no
// credential is accepted the pointer does not move.
func (p *Pool) NextWhere(accept func(Credential) bool) (cred Credential, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for n := 0; n < len(p.slots); n++ {
		i := (p.next + n) % len(p.slots)
		if accept(p.slots[i]) {
			p.next = (i + 1) % len(p.slots)
			return p.slots[i], true
		}
	}
	return Credential{}, false
}
