package sandbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/bookshelf/internal/books"
)

func fixedRepo(t *testing.T) (*Repo, *time.Time) {
	t.Helper()
	now := time.Date(2026, 3, 4, 9, 5, 7, 0, time.UTC)
	r := NewRepo()
	r.now = func() time.Time { return now }
	n := 0
	r.newID = func() string {
		n++
		return string(rune('a' + n - 1))
	}
	return r, &now
}

func TestRepo_CreateKeepsInsertionOrder(t *testing.T) {
	r, now := fixedRepo(t)

	first := r.Create(books.Draft{Title: "Dune", Author: "Frank Herbert", PublishYear: "1965"})
	second := r.Create(books.Draft{Title: "Kindred", Author: "Octavia E. Butler", PublishYear: "1979"})

	assert.Equal(t, "a", first.ID)
	assert.Equal(t, "b", second.ID)
	assert.Equal(t, *now, first.CreatedAt)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Dune", list[0].Title)
	assert.Equal(t, "Kindred", list[1].Title)
}

func TestRepo_ListReturnsCopy(t *testing.T) {
	r, _ := fixedRepo(t)
	r.Create(books.Draft{Title: "Dune"})

	list := r.List()
	list[0].Title = "changed"

	got, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
}

func TestRepo_UpdateTouchesUpdatedAt(t *testing.T) {
	r, now := fixedRepo(t)
	created := r.Create(books.Draft{Title: "Dune", Author: "Frank Herbert", PublishYear: "1965"})

	*now = now.Add(time.Hour)
	updated, err := r.Update(created.ID, books.Draft{Title: "Dune Messiah", Author: "Frank Herbert", PublishYear: "1969"})
	require.NoError(t, err)

	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Equal(t, books.Year("1969"), updated.PublishYear)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestRepo_MissingIDs(t *testing.T) {
	r, _ := fixedRepo(t)

	_, err := r.Get("99")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Update("99", books.Draft{Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.Delete("99"), ErrNotFound)
}

func TestRepo_Delete(t *testing.T) {
	r, _ := fixedRepo(t)
	r.Create(books.Draft{Title: "A"})
	r.Create(books.Draft{Title: "B"})
	r.Create(books.Draft{Title: "C"})

	require.NoError(t, r.Delete("b"))

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Title)
	assert.Equal(t, "C", list[1].Title)
}

func TestRepo_NormalizesText(t *testing.T) {
	r, _ := fixedRepo(t)

	// "e" followed by a combining acute accent.
	b := r.Create(books.Draft{Title: "  Les Mise\u0301rables ", Author: "Victor Hugo", PublishYear: " 1862 "})

	assert.Equal(t, "Les Mis\u00e9rables", b.Title)
	assert.Equal(t, books.Year("1862"), b.PublishYear)
}
