package detail

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/five82/bookshelf/internal/books"
	"github.com/five82/bookshelf/internal/notify"
)

// Messages shown when an operation finishes.
const (
	SavedMessage   = "Book Saved Successfully"
	EditedMessage  = "Book Edited Successfully"
	DeletedMessage = "Book Deleted Successfully"

	DefaultSaveError   = "An error occurred while saving the book."
	DefaultEditError   = "An error occurred while Editing the book."
	DefaultDeleteError = "An error occurred while Deleting the book."
)

// ErrInvalidTransition is returned when an operation is not allowed in the
// controller's current phase. The controller is left unchanged.
var ErrInvalidTransition = errors.New("invalid transition")

// Phase is the state of the working copy.
type Phase int

const (
	Idle Phase = iota
	Loading
	Loaded
	Editing
	ConfirmingDelete
	Creating
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Editing:
		return "editing"
	case ConfirmingDelete:
		return "confirming-delete"
	case Creating:
		return "creating"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Mode selects the phase Open lands in once the book is fetched.
type Mode int

const (
	ModeView Mode = iota
	ModeEdit
	ModeDelete
)

func (m Mode) String() string {
	switch m {
	case ModeView:
		return "view"
	case ModeEdit:
		return "edit"
	case ModeDelete:
		return "delete"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// API is the subset of the books client the controller calls.
type API interface {
	GetBook(ctx context.Context, id string) (books.Book, error)
	CreateBook(ctx context.Context, draft books.Draft) error
	UpdateBook(ctx context.Context, id string, draft books.Draft) error
	DeleteBook(ctx context.Context, id string) error
}

// Refresher reloads the book collection after a mutation.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Notifier raises and lowers notification flags.
type Notifier interface {
	Set(kind notify.Kind, message string)
	Clear(kind notify.Kind)
}

// Snapshot is a copy of the controller state for rendering.
type Snapshot struct {
	Phase     Phase
	Mode      Mode
	Book      books.Book  // fetched book; zero in Idle, Loading, Creating and Failed
	Draft     books.Draft // form contents in Editing and Creating
	Err       error       // set in Failed
	Saving    bool
	CanResume bool // a failed edit left a draft that ResumeEdit restores
}

// Controller drives the view, edit, delete and create dialogs.
//
// Mutating calls block until the backend answers and the collection has been
// refreshed, so callers run them off the UI goroutine.
type Controller struct {
	api   API
	store Refresher
	notes Notifier

	mu     sync.Mutex
	phase  Phase
	mode   Mode
	book   books.Book
	draft  books.Draft
	err    error
	saving int
	// gen changes whenever a new working copy starts or the dialog closes.
	// Late results only touch the working copy of their own generation.
	gen      uint64
	loadID   string
	retained *retainedEdit
}

type retainedEdit struct {
	book  books.Book
	draft books.Draft
}

// New builds a Controller in the Idle phase.
func New(api API, store Refresher, notes Notifier) *Controller {
	return &Controller{api: api, store: store, notes: notes}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Phase:     c.phase,
		Mode:      c.mode,
		Book:      c.book,
		Draft:     c.draft,
		Err:       c.err,
		Saving:    c.saving > 0,
		CanResume: c.retained != nil,
	}
}

// Open discards the working copy and fetches the book with id. On success the
// controller moves to Loaded, Editing or ConfirmingDelete depending on mode.
// On failure it moves to Failed and keeps no book data.
func (c *Controller) Open(ctx context.Context, id string, mode Mode) error {
	c.mu.Lock()
	switch c.phase {
	case Idle, Loaded, Failed:
	default:
		phase := c.phase
		c.mu.Unlock()
		return invalid("open", phase)
	}
	c.resetLocked()
	c.phase = Loading
	c.mode = mode
	c.loadID = id
	gen := c.gen
	c.mu.Unlock()

	book, err := c.api.GetBook(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.phase != Loading || c.loadID != id {
		return err
	}
	if err != nil {
		log.Printf("get book %s failed: %v", id, err)
		c.phase = Failed
		c.err = err
		return err
	}
	c.book = book
	c.draft = book.Draft()
	switch mode {
	case ModeEdit:
		c.phase = Editing
	case ModeDelete:
		c.phase = ConfirmingDelete
	default:
		c.phase = Loaded
	}
	return nil
}

// BeginEdit moves a loaded book into the edit form.
func (c *Controller) BeginEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Loaded {
		return invalid("begin edit", c.phase)
	}
	c.phase = Editing
	c.mode = ModeEdit
	c.draft = c.book.Draft()
	return nil
}

// BeginDelete asks for confirmation before deleting a loaded book.
func (c *Controller) BeginDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Loaded {
		return invalid("begin delete", c.phase)
	}
	c.phase = ConfirmingDelete
	c.mode = ModeDelete
	return nil
}

// BeginCreate opens an empty create form.
func (c *Controller) BeginCreate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Idle {
		return invalid("begin create", c.phase)
	}
	c.resetLocked()
	c.phase = Creating
	return nil
}

// ResumeEdit reopens the edit form with the draft kept from a failed edit.
func (c *Controller) ResumeEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Idle || c.retained == nil {
		return invalid("resume edit", c.phase)
	}
	kept := c.retained
	c.resetLocked()
	c.phase = Editing
	c.mode = ModeEdit
	c.book = kept.book
	c.draft = kept.draft
	return nil
}

// SetDraft replaces the form contents.
func (c *Controller) SetDraft(d books.Draft) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Editing && c.phase != Creating {
		return invalid("set draft", c.phase)
	}
	c.draft = d
	return nil
}

// Close returns to Idle and discards the working copy. Requests already in
// flight still report their outcome through notifications.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// SubmitEdit sends the edit form. On success it raises EditSucceeded and
// refreshes the collection. On failure it raises EditFailed and keeps the
// draft for ResumeEdit. Both paths return to Idle.
func (c *Controller) SubmitEdit(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != Editing || c.saving > 0 {
		phase := c.phase
		c.mu.Unlock()
		return invalid("submit edit", phase)
	}
	book, draft, gen := c.book, c.draft, c.gen
	c.saving++
	c.mu.Unlock()

	c.notes.Clear(notify.EditFailed)
	err := c.send(func() error {
		return c.api.UpdateBook(ctx, book.ID, draft)
	})

	c.mu.Lock()
	if c.gen == gen {
		c.resetLocked()
		if err != nil {
			c.retained = &retainedEdit{book: book, draft: draft}
		}
	}
	c.mu.Unlock()

	if err != nil {
		log.Printf("update book %s failed: %v", book.ID, err)
		c.notes.Set(notify.EditFailed, messageOr(err, DefaultEditError))
		return err
	}
	c.notes.Set(notify.EditSucceeded, EditedMessage)
	_ = c.store.Refresh(ctx)
	return nil
}

// SubmitCreate sends the create form. The form is cleared before the request
// goes out. On success it raises SaveSucceeded and refreshes the collection;
// on failure it raises SaveFailed. Both paths return to Idle.
func (c *Controller) SubmitCreate(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != Creating || c.saving > 0 {
		phase := c.phase
		c.mu.Unlock()
		return invalid("submit create", phase)
	}
	draft, gen := c.draft, c.gen
	c.draft = books.Draft{}
	c.saving++
	c.mu.Unlock()

	c.notes.Clear(notify.SaveFailed)
	err := c.send(func() error {
		return c.api.CreateBook(ctx, draft)
	})

	c.mu.Lock()
	if c.gen == gen {
		c.resetLocked()
	}
	c.mu.Unlock()

	if err != nil {
		log.Printf("create book failed: %v", err)
		c.notes.Set(notify.SaveFailed, messageOr(err, DefaultSaveError))
		return err
	}
	c.notes.Set(notify.SaveSucceeded, SavedMessage)
	_ = c.store.Refresh(ctx)
	return nil
}

// ConfirmDelete deletes the book awaiting confirmation. On success it raises
// DeleteSucceeded and refreshes the collection; on failure it raises
// DeleteFailed and leaves the collection alone. Both paths return to Idle.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != ConfirmingDelete || c.saving > 0 {
		phase := c.phase
		c.mu.Unlock()
		return invalid("confirm delete", phase)
	}
	id, gen := c.book.ID, c.gen
	c.saving++
	c.mu.Unlock()

	c.notes.Clear(notify.DeleteFailed)
	err := c.send(func() error {
		return c.api.DeleteBook(ctx, id)
	})

	c.mu.Lock()
	if c.gen == gen {
		c.resetLocked()
	}
	c.mu.Unlock()

	if err != nil {
		log.Printf("delete book %s failed: %v", id, err)
		c.notes.Set(notify.DeleteFailed, messageOr(err, DefaultDeleteError))
		return err
	}
	c.notes.Set(notify.DeleteSucceeded, DeletedMessage)
	_ = c.store.Refresh(ctx)
	return nil
}

// send runs a mutating request and releases the saving flag however it ends.
func (c *Controller) send(fn func() error) error {
	defer func() {
		c.mu.Lock()
		c.saving--
		c.mu.Unlock()
	}()
	return fn()
}

func (c *Controller) resetLocked() {
	c.gen++
	c.phase = Idle
	c.mode = ModeView
	c.book = books.Book{}
	c.draft = books.Draft{}
	c.err = nil
	c.loadID = ""
	c.retained = nil
}

func invalid(op string, phase Phase) error {
	return fmt.Errorf("%s while %s: %w", op, phase, ErrInvalidTransition)
}

// messageOr returns the backend message carried by err, or fallback.
func messageOr(err error, fallback string) string {
	if msg := strings.TrimSpace(books.Message(err)); msg != "" {
		return msg
	}
	return fallback
}
