package state

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/five82/bookshelf/internal/books"
)

// Lister fetches the book collection. It is satisfied by *books.Client.
type Lister interface {
	ListBooks(ctx context.Context) ([]books.Book, error)
}

// Snapshot represents the latest collection available to the UI.
type Snapshot struct {
	Books               []books.Book
	Loaded              bool // at least one fetch succeeded
	Loading             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive refresh failures
}

// IsOffline returns true when the backend has been unreachable for multiple
// refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Find returns the book with the given id.
func (s Snapshot) Find(id string) (books.Book, bool) {
	for _, b := range s.Books {
		if b.ID == id {
			return b, true
		}
	}
	return books.Book{}, false
}

// Store holds the book collection and refreshes it from the backend.
type Store struct {
	api Lister

	mu       sync.RWMutex
	inflight int
	snapshot Snapshot
}

// NewStore returns an empty store backed by api.
func NewStore(api Lister) *Store {
	return &Store{api: api}
}

// Refresh fetches the collection and replaces the stored one on success. On
// failure the previous collection is kept and the error is recorded. Loading
// stays true while any refresh is in flight.
func (s *Store) Refresh(ctx context.Context) error {
	s.begin()
	defer s.end()

	list, err := s.api.ListBooks(ctx)
	if err != nil {
		log.Printf("refresh books failed: %v", err)
	}
	s.Update(list, err)
	return err
}

// Update records the outcome of a fetch. When err is non-nil the previous
// data is kept but the error is recorded for visibility.
func (s *Store) Update(list []books.Book, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Books = cloneBooks(list)
	s.snapshot.Loaded = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Books = cloneBooks(s.snapshot.Books)
	snap.Loading = s.inflight > 0
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Loading reports whether a refresh is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

func (s *Store) begin() {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()
}

func (s *Store) end() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

func cloneBooks(items []books.Book) []books.Book {
	if len(items) == 0 {
		return nil
	}
	dup := make([]books.Book, len(items))
	copy(dup, items)
	return dup
}
