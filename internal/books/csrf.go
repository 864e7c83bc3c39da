package books

import (
	"context"
	"log"
	"sync"
)

// TokenFetcher retrieves a fresh CSRF token from the backend.
type TokenFetcher func(ctx context.Context) (string, error)

// CSRF holds the session CSRF token. It is fetched once per session and
// never refreshed; an empty token is sent as-is and left for the backend to
// reject.
type CSRF struct {
	fetch TokenFetcher

	mu      sync.RWMutex
	token   string
	fetched bool
	lastErr error
}

// NewCSRF returns a provider that obtains its token through fetch.
func NewCSRF(fetch TokenFetcher) *CSRF {
	return &CSRF{fetch: fetch}
}

// Fetch requests the session token and stores it. On failure the error is
// logged and the token stays empty.
func (p *CSRF) Fetch(ctx context.Context) string {
	if p == nil || p.fetch == nil {
		return ""
	}
	token, err := p.fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetched = true
	p.lastErr = err
	if err != nil {
		log.Printf("csrf token fetch failed: %v", err)
		return p.token
	}
	p.token = token
	return token
}

// Token returns the current token, possibly empty.
func (p *CSRF) Token() string {
	if p == nil {
		return ""
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

// Status reports whether a fetch has completed and the error it returned.
func (p *CSRF) Status() (fetched bool, err error) {
	if p == nil {
		return false, nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fetched, p.lastErr
}
