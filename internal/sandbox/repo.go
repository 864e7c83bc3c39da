package sandbox

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/five82/bookshelf/internal/books"
)

// ErrNotFound is returned for ids the repository does not hold.
var ErrNotFound = errors.New("book not found")

// Repo is an in-memory book collection kept in insertion order.
type Repo struct {
	mu    sync.RWMutex
	items []books.Book
	now   func() time.Time
	newID func() string
}

// NewRepo returns an empty repository.
func NewRepo() *Repo {
	return &Repo{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// List returns a copy of every book.
func (r *Repo) List() []books.Book {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]books.Book, len(r.items))
	copy(out, r.items)
	return out
}

// Get returns the book with the given id.
func (r *Repo) Get(id string) (books.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexLocked(id)
	if i < 0 {
		return books.Book{}, ErrNotFound
	}
	return r.items[i], nil
}

// Create stores a new book and returns it.
func (r *Repo) Create(d books.Draft) books.Book {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	b := books.Book{
		ID:        r.newID(),
		CreatedAt: now,
		UpdatedAt: now,
	}.WithDraft(normalize(d))
	r.items = append(r.items, b)
	return b
}

// Update replaces the editable fields of a book.
func (r *Repo) Update(id string, d books.Draft) (books.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexLocked(id)
	if i < 0 {
		return books.Book{}, ErrNotFound
	}
	b := r.items[i].WithDraft(normalize(d))
	b.UpdatedAt = r.now().UTC()
	r.items[i] = b
	return b, nil
}

// Delete removes a book.
func (r *Repo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

func (r *Repo) indexLocked(id string) int {
	for i, b := range r.items {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// normalize trims the text fields and stores them in NFC so that visually
// equal titles compare equal.
func normalize(d books.Draft) books.Draft {
	return books.Draft{
		Title:       norm.NFC.String(strings.TrimSpace(d.Title)),
		Author:      norm.NFC.String(strings.TrimSpace(d.Author)),
		PublishYear: books.Year(strings.TrimSpace(string(d.PublishYear))),
	}
}
