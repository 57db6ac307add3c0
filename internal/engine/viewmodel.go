package engine

import (
	"context"

	"planner/internal/duedate"
	"planner/internal/storage"
)

type Item struct {
	storage.Task
	Urgency duedate.Urgency
}

// ViewModel is everything the shell needs to draw one frame.
// Cursor is -1 in the completed view, which has no selection.
type ViewModel struct {
	View      View
	Subtitle  string
	Items     []Item
	Cursor    int
	Total     int
	Completed int
	Progress  int
}

func (e *Engine) ViewModel(ctx context.Context) (ViewModel, error) {
	if e.state.View == ViewCompleted {
		tasks, err := e.store.ListCompleted(ctx)
		if err != nil {
			return ViewModel{}, err
		}
		items := make([]Item, 0, len(tasks))
		for _, t := range tasks {
			items = append(items, Item{Task: t})
		}
		return ViewModel{View: ViewCompleted, Items: items, Cursor: -1}, nil
	}

	tasks, err := e.store.ListActive(ctx, e.state.Predicate)
	if err != nil {
		return ViewModel{}, err
	}
	st, err := e.store.Stats(ctx, e.state.Predicate)
	if err != nil {
		return ViewModel{}, err
	}

	today := e.now()
	items := make([]Item, 0, len(tasks))
	for _, t := range tasks {
		it := Item{Task: t}
		if !t.Done {
			it.Urgency = duedate.Classify(t.Due, today)
		}
		items = append(items, it)
	}
	e.state.Cursor = clampCursor(e.state.Cursor, len(items))

	return ViewModel{
		View:      ViewDashboard,
		Subtitle:  e.state.Subtitle,
		Items:     items,
		Cursor:    e.state.Cursor,
		Total:     st.Total,
		Completed: st.Completed,
		Progress:  progress(st),
	}, nil
}

// progress is the floored completion percentage.
func progress(st storage.Stats) int {
	if st.Total <= 0 {
		return 0
	}
	return st.Completed * 100 / st.Total
}
