package notify

import (
	"sort"
	"sync"
	"time"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Kind identifies one notification slot: an operation and its outcome.
type Kind int

const (
	SaveSucceeded Kind = iota
	SaveFailed
	EditSucceeded
	EditFailed
	DeleteSucceeded
	DeleteFailed
)

// Kinds lists every notification kind in display order.
var Kinds = []Kind{SaveSucceeded, SaveFailed, EditSucceeded, EditFailed, DeleteSucceeded, DeleteFailed}

func (k Kind) String() string {
	switch k {
	case SaveSucceeded:
		return "save-succeeded"
	case SaveFailed:
		return "save-failed"
	case EditSucceeded:
		return "edit-succeeded"
	case EditFailed:
		return "edit-failed"
	case DeleteSucceeded:
		return "delete-succeeded"
	case DeleteFailed:
		return "delete-failed"
	default:
		return "unknown"
	}
}

// IsError reports whether the kind records a failure.
func (k Kind) IsError() bool {
	return k == SaveFailed || k == EditFailed || k == DeleteFailed
}

// Flag is a visible notification.
type Flag struct {
	Kind    Kind
	Message string
	SetAt   time.Time
}

// timer is the subset of *time.Timer the board needs.
type timer interface {
	Stop() bool
}

type scheduleFunc func(d time.Duration, f func()) timer

type slot struct {
	flag  Flag
	timer timer
	gen   uint64
}

// Board tracks the notification flags. Each kind has its own expiry timer;
// setting or clearing one kind never touches another.
type Board struct {
	ttl      time.Duration
	now      func() time.Time
	schedule scheduleFunc

	mu    sync.Mutex
	slots map[Kind]*slot
}

// Option configures a Board.
type Option func(*Board)

// WithTTL overrides DefaultTTL.
func WithTTL(d time.Duration) Option {
	return func(b *Board) {
		if d > 0 {
			b.ttl = d
		}
	}
}

// NewBoard returns an empty board.
func NewBoard(opts ...Option) *Board {
	b := &Board{
		ttl: DefaultTTL,
		now: time.Now,
		schedule: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
		slots: make(map[Kind]*slot),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// TTL returns the lifetime of a flag.
func (b *Board) TTL() time.Duration {
	return b.ttl
}

// Set raises the flag for kind with message and schedules its clear. A
// pending clear from an earlier Set of the same kind is replaced.
func (b *Board) Set(kind Kind, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.slotLocked(kind)
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.flag = Flag{Kind: kind, Message: message, SetAt: b.now()}
	s.timer = b.schedule(b.ttl, func() { b.expire(kind, gen) })
}

// Clear lowers the flag for kind and cancels its pending clear.
func (b *Board) Clear(kind Kind) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.slots[kind]
	if !ok {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	delete(b.slots, kind)
}

// Active reports whether the flag for kind is raised, with its message.
func (b *Board) Active(kind Kind) (Flag, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.slots[kind]
	if !ok {
		return Flag{}, false
	}
	return s.flag, true
}

// Snapshot returns the raised flags ordered by kind.
func (b *Board) Snapshot() []Flag {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.slots) == 0 {
		return nil
	}
	flags := make([]Flag, 0, len(b.slots))
	for _, s := range b.slots {
		flags = append(flags, s.flag)
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].Kind < flags[j].Kind })
	return flags
}

// Stop cancels every pending timer and lowers all flags.
func (b *Board) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for kind, s := range b.slots {
		if s.timer != nil {
			s.timer.Stop()
		}
		delete(b.slots, kind)
	}
}

// expire clears kind only if no newer Set happened since the timer was armed.
func (b *Board) expire(kind Kind, gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.slots[kind]
	if !ok || s.gen != gen {
		return
	}
	delete(b.slots, kind)
}

func (b *Board) slotLocked(kind Kind) *slot {
	s, ok := b.slots[kind]
	if !ok {
		s = &slot{}
		b.slots[kind] = s
	}
	return s
}
