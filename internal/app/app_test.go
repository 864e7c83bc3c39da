package app

import (
	"context"
	"errors"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/bookshelf/internal/books"
	"github.com/five82/bookshelf/internal/config"
	"github.com/five82/bookshelf/internal/detail"
	"github.com/five82/bookshelf/internal/notify"
	"github.com/five82/bookshelf/internal/sandbox"
)

func newSandboxSession(t *testing.T, seed ...books.Draft) *Session {
	t.Helper()
	srv := httptest.NewServer(sandbox.New(sandbox.Options{Seed: seed}).Handler())
	t.Cleanup(srv.Close)

	s, err := NewSession(config.Config{BackendURL: srv.URL, RequestTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestSession_CRUDAgainstSandbox(t *testing.T) {
	ctx := context.Background()
	s := newSandboxSession(t,
		books.Draft{Title: "Dune", Author: "Frank Herbert", PublishYear: "1965"},
		books.Draft{Title: "Kindred", Author: "Octavia E. Butler", PublishYear: "1979"},
	)

	if token := s.Client.CSRF().Fetch(ctx); token == "" {
		t.Fatal("csrf token is empty")
	}
	if err := s.Store.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if n := len(s.Store.Snapshot().Books); n != 2 {
		t.Fatalf("collection = %d books, want 2", n)
	}

	// Create
	if err := s.Controller.BeginCreate(); err != nil {
		t.Fatalf("BeginCreate: %v", err)
	}
	if err := s.Controller.SetDraft(books.Draft{Title: "Beloved", Author: "Toni Morrison", PublishYear: "1987"}); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	if err := s.Controller.SubmitCreate(ctx); err != nil {
		t.Fatalf("SubmitCreate: %v", err)
	}
	snap := s.Store.Snapshot()
	if len(snap.Books) != 3 || snap.Books[2].Title != "Beloved" {
		t.Fatalf("collection after create = %+v", snap.Books)
	}
	if f, ok := s.Board.Active(notify.SaveSucceeded); !ok || f.Message != detail.SavedMessage {
		t.Fatalf("SaveSucceeded = %+v, %v", f, ok)
	}

	// Edit
	id := snap.Books[0].ID
	if err := s.Controller.Open(ctx, id, detail.ModeEdit); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Controller.SetDraft(books.Draft{Title: "Dune", Author: "F. Herbert", PublishYear: "1965"}); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	if err := s.Controller.SubmitEdit(ctx); err != nil {
		t.Fatalf("SubmitEdit: %v", err)
	}
	if b, _ := s.Store.Snapshot().Find(id); b.Author != "F. Herbert" {
		t.Fatalf("author after edit = %q", b.Author)
	}

	// Delete
	if err := s.Controller.Open(ctx, id, detail.ModeDelete); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Controller.ConfirmDelete(ctx); err != nil {
		t.Fatalf("ConfirmDelete: %v", err)
	}
	if _, ok := s.Store.Snapshot().Find(id); ok {
		t.Fatal("deleted book still in collection")
	}
	if _, ok := s.Board.Active(notify.DeleteSucceeded); !ok {
		t.Fatal("DeleteSucceeded not raised")
	}
}

func TestSession_ValidationMessageReachesNotification(t *testing.T) {
	ctx := context.Background()
	s := newSandboxSession(t)
	s.Client.CSRF().Fetch(ctx)

	if err := s.Controller.BeginCreate(); err != nil {
		t.Fatalf("BeginCreate: %v", err)
	}
	_ = s.Controller.SetDraft(books.Draft{Title: "No author"})
	err := s.Controller.SubmitCreate(ctx)
	if !errors.Is(err, books.ErrValidation) {
		t.Fatalf("SubmitCreate error = %v, want validation", err)
	}

	f, ok := s.Board.Active(notify.SaveFailed)
	if !ok || f.Message != sandbox.RequiredFieldsMessage {
		t.Fatalf("SaveFailed = %+v, %v; want backend message", f, ok)
	}
	if s.Controller.Snapshot().Phase != detail.Idle {
		t.Fatalf("phase = %s, want idle", s.Controller.Snapshot().Phase)
	}
}

func TestSession_MissingCSRFTokenFailsMutation(t *testing.T) {
	ctx := context.Background()
	s := newSandboxSession(t)

	_ = s.Controller.BeginCreate()
	_ = s.Controller.SetDraft(books.Draft{Title: "Beloved", Author: "Toni Morrison", PublishYear: "1987"})
	if err := s.Controller.SubmitCreate(ctx); err == nil {
		t.Fatal("SubmitCreate succeeded without a CSRF token")
	}
	f, ok := s.Board.Active(notify.SaveFailed)
	if !ok || f.Message != "invalid csrf token" {
		t.Fatalf("SaveFailed = %+v, %v", f, ok)
	}
}

func TestRedirectLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bookshelf.log")

	restore, err := redirectLog(path)
	if err != nil {
		t.Fatalf("redirectLog: %v", err)
	}
	log.Printf("hello from the test")
	restore()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "hello from the test") {
		t.Fatalf("log file = %q, want test line", data)
	}
}
