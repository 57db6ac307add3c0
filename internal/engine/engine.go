// Package engine holds the interactive state of the planner: which view is
// shown, the active filter, and the cursor. The terminal shell sends it one
// command per input event and renders the ViewModel it returns.
package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"planner/internal/storage"
)

// Store is the persistence the engine drives.
type Store interface {
	AddTask(ctx context.Context, title, category, dueRaw string) (int64, error)
	MarkDone(ctx context.Context, id int64) error
	SoftDelete(ctx context.Context, id int64) error
	ListActive(ctx context.Context, p storage.Predicate) ([]storage.Task, error)
	ListCompleted(ctx context.Context) ([]storage.Task, error)
	Stats(ctx context.Context, p storage.Predicate) (storage.Stats, error)
}

type View int

const (
	ViewDashboard View = iota
	ViewCompleted
)

func (v View) String() string {
	if v == ViewCompleted {
		return "completed"
	}
	return "dashboard"
}

// State is the engine's working memory. It is never persisted.
type State struct {
	View      View
	Predicate storage.Predicate
	Cursor    int
	Subtitle  string
}

type Engine struct {
	store Store
	log   *log.Logger
	now   func() time.Time
	state State
	done  bool
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		log:   log.New(io.Discard),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a copy of the current view state.
func (e *Engine) State() State { return e.state }

// Done reports whether a Quit command has been applied.
func (e *Engine) Done() bool { return e.done }

// Dispatch applies cmd and returns the view-model for the resulting state.
// A non-nil error means the store failed; the session cannot continue.
func (e *Engine) Dispatch(ctx context.Context, cmd Command) (ViewModel, error) {
	e.log.Debug("dispatch", "command", fmt.Sprintf("%T", cmd), "view", e.state.View)
	if err := cmd.apply(ctx, e); err != nil {
		e.log.Error("command failed", "command", fmt.Sprintf("%T", cmd), "err", err)
		return ViewModel{}, err
	}
	return e.ViewModel(ctx)
}

func (e *Engine) setPredicate(p storage.Predicate, subtitle string) {
	e.state.Predicate = p
	e.state.Subtitle = subtitle
	e.state.Cursor = 0
}

// selected returns the task under the cursor on a fresh dashboard listing.
func (e *Engine) selected(ctx context.Context) (*storage.Task, error) {
	if e.state.View != ViewDashboard {
		return nil, nil
	}
	tasks, err := e.store.ListActive(ctx, e.state.Predicate)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	t := tasks[clampCursor(e.state.Cursor, len(tasks))]
	return &t, nil
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
