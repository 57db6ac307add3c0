package engine

import (
	"context"
	"fmt"

	"planner/internal/storage"
)

// Command is one user intent issued by the shell.
type Command interface {
	apply(ctx context.Context, e *Engine) error
}

type MoveCursor struct {
	Delta int
}

type Add struct {
	Title    string
	Category string
	DueRaw   string
}

type MarkDone struct{}

type Delete struct{}

type SetFilter struct {
	Tag string
}

type SetSearch struct {
	Query string
}

type ClearFilter struct{}

type SwitchView struct {
	View View
}

type Quit struct{}

func (c MoveCursor) apply(ctx context.Context, e *Engine) error {
	if e.state.View != ViewDashboard {
		return nil
	}
	tasks, err := e.store.ListActive(ctx, e.state.Predicate)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}
	e.state.Cursor = wrapIndex(e.state.Cursor+c.Delta, len(tasks))
	return nil
}

func (c Add) apply(ctx context.Context, e *Engine) error {
	id, err := e.store.AddTask(ctx, c.Title, c.Category, c.DueRaw)
	if err != nil {
		return err
	}
	e.log.Info("task added", "id", id, "category", c.Category)
	e.setPredicate(storage.NoFilter(), "")
	return nil
}

func (MarkDone) apply(ctx context.Context, e *Engine) error {
	t, err := e.selected(ctx)
	if err != nil || t == nil {
		return err
	}
	if err := e.store.MarkDone(ctx, t.ID); err != nil {
		return err
	}
	e.log.Info("task done", "id", t.ID)
	e.state.Cursor = 0
	return nil
}

func (Delete) apply(ctx context.Context, e *Engine) error {
	t, err := e.selected(ctx)
	if err != nil || t == nil {
		return err
	}
	if err := e.store.SoftDelete(ctx, t.ID); err != nil {
		return err
	}
	e.log.Info("task deleted", "id", t.ID)
	e.state.Cursor = 0
	return nil
}

func (c SetFilter) apply(_ context.Context, e *Engine) error {
	if c.Tag == "" {
		return nil
	}
	e.setPredicate(storage.CategoryEquals(c.Tag), fmt.Sprintf("Filtered by #%s", c.Tag))
	return nil
}

func (c SetSearch) apply(_ context.Context, e *Engine) error {
	if c.Query == "" {
		return nil
	}
	e.setPredicate(storage.TitleContains(c.Query), fmt.Sprintf("Search results for '%s'", c.Query))
	return nil
}

func (ClearFilter) apply(_ context.Context, e *Engine) error {
	e.setPredicate(storage.NoFilter(), "")
	return nil
}

func (c SwitchView) apply(_ context.Context, e *Engine) error {
	e.state.View = c.View
	e.state.Cursor = 0
	return nil
}

func (Quit) apply(_ context.Context, e *Engine) error {
	e.done = true
	return nil
}
