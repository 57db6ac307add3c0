package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"planner/internal/config"
	"planner/internal/duedate"
	"planner/internal/engine"
	"planner/internal/storage"
)

var fixedToday = time.Date(2025, time.January, 10, 8, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedToday }

func newTestModel(t *testing.T) (Model, *engine.Engine) {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.LoadOrCreate(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	store, err := storage.Open(context.Background(), cfg.DBPath, storage.WithClock(clock))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	eng := engine.New(store, engine.WithClock(clock))
	m, err := New(context.Background(), eng, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m, eng
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m, cmd
}

func addTask(t *testing.T, m Model, title, category, due string) Model {
	t.Helper()
	enter := tea.KeyMsg{Type: tea.KeyEnter}
	m, _ = press(t, m,
		runes("a"), runes(title), enter,
		runes(category), enter,
	)
	if due != "" {
		m, _ = press(t, m, runes(due))
	}
	m, _ = press(t, m, enter)
	return m
}

func TestEmptyDashboard(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()
	for _, want := range []string{"Daily Planner (Dashboard)", "No todos yet!", "Total: 0  Done: 0  Progress: 0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestAddPromptsStoreTask(t *testing.T) {
	m, _ := newTestModel(t)
	m = addTask(t, m, "Buy milk", "#home", "tomorrow")

	if m.mode != modeList {
		t.Fatalf("mode=%d after add, want list", m.mode)
	}
	if len(m.vm.Items) != 1 {
		t.Fatalf("items=%d, want 1", len(m.vm.Items))
	}
	got := m.vm.Items[0]
	if got.Title != "Buy milk" || got.Category != "home" || got.Due != "2025-01-11" {
		t.Errorf("task=%+v", got.Task)
	}
	if got.Urgency != duedate.Upcoming {
		t.Errorf("urgency=%v, want upcoming", got.Urgency)
	}
	out := m.View()
	if !strings.Contains(out, "-> [ ] Buy milk") {
		t.Errorf("cursor row missing:\n%s", out)
	}
	if !strings.Contains(out, "Added task") {
		t.Errorf("status missing:\n%s", out)
	}
}

func TestQuitKeyIgnoredWhilePrompting(t *testing.T) {
	m, eng := newTestModel(t)
	m, _ = press(t, m, runes("a"), runes("q"))
	if eng.Done() {
		t.Fatalf("q inside a prompt quit the session")
	}
	if m.input.Value() != "q" {
		t.Errorf("input=%q, want %q", m.input.Value(), "q")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.mode != modeList || m.status != "Cancelled" {
		t.Errorf("mode=%d status=%q after esc", m.mode, m.status)
	}
	if len(m.vm.Items) != 0 {
		t.Errorf("cancelled add stored a task")
	}
}

func TestDoneAndDeleteKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m = addTask(t, m, "one", "", "")
	m = addTask(t, m, "two", "", "")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, runes("d"))
	if len(m.vm.Items) != 1 || m.vm.Items[0].Title != "two" {
		t.Fatalf("after done: %+v", m.vm.Items)
	}
	if m.vm.Completed != 1 || m.vm.Progress != 50 {
		t.Errorf("completed=%d progress=%d", m.vm.Completed, m.vm.Progress)
	}

	m, _ = press(t, m, runes("x"))
	if len(m.vm.Items) != 0 {
		t.Fatalf("after delete: %+v", m.vm.Items)
	}
	if m.vm.Total != 1 || m.vm.Progress != 100 {
		t.Errorf("total=%d progress=%d", m.vm.Total, m.vm.Progress)
	}
}

func TestFilterSearchAndBack(t *testing.T) {
	m, _ := newTestModel(t)
	m = addTask(t, m, "Buy milk", "home", "")
	m = addTask(t, m, "Write report", "work", "")

	enter := tea.KeyMsg{Type: tea.KeyEnter}
	m, _ = press(t, m, runes("f"), runes("#work"), enter)
	if len(m.vm.Items) != 1 || m.vm.Items[0].Title != "Write report" {
		t.Fatalf("filter items=%+v", m.vm.Items)
	}
	if !strings.Contains(m.View(), "Filtered by #work") {
		t.Errorf("subtitle missing:\n%s", m.View())
	}

	m, _ = press(t, m, runes("/"), runes("MILK"), enter)
	if len(m.vm.Items) != 1 || m.vm.Items[0].Title != "Buy milk" {
		t.Fatalf("search items=%+v", m.vm.Items)
	}
	if !strings.Contains(m.View(), "Search results for 'MILK'") {
		t.Errorf("subtitle missing:\n%s", m.View())
	}

	m, _ = press(t, m, runes("b"))
	if len(m.vm.Items) != 2 || m.vm.Subtitle != "" {
		t.Errorf("after back: items=%d subtitle=%q", len(m.vm.Items), m.vm.Subtitle)
	}
}

func TestCompletedView(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, runes("c"))
	if !strings.Contains(m.View(), "No completed todos yet!") {
		t.Fatalf("empty completed view:\n%s", m.View())
	}
	m, _ = press(t, m, runes("b"))

	m = addTask(t, m, "ship it", "work", "")
	m, _ = press(t, m, runes("d"), runes("c"))
	out := m.View()
	if !strings.Contains(out, "Completed Todos (press b to go back)") || !strings.Contains(out, "[x] ship it #work") {
		t.Errorf("completed view:\n%s", out)
	}

	// Dashboard-only keys are inert here.
	m, _ = press(t, m, runes("a"))
	if m.mode != modeList {
		t.Errorf("add prompt opened on completed view")
	}

	m, _ = press(t, m, runes("b"))
	if m.vm.View != engine.ViewDashboard {
		t.Errorf("view=%v, want dashboard", m.vm.View)
	}
}

func TestQuitKey(t *testing.T) {
	m, eng := newTestModel(t)
	_, cmd := press(t, m, runes("q"))
	if !eng.Done() {
		t.Fatalf("engine not done after quit key")
	}
	if cmd == nil {
		t.Fatalf("quit key returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("quit key did not return tea.Quit")
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent, width int
		want           string
	}{
		{0, 4, "[----] 0%"},
		{50, 4, "[##--] 50%"},
		{33, 10, "[###-------] 33%"},
		{100, 4, "[####] 100%"},
		{150, 2, "[##] 100%"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.percent, tt.width); got != tt.want {
			t.Errorf("ProgressBar(%d, %d)=%q, want %q", tt.percent, tt.width, got, tt.want)
		}
	}
}

func TestTaskLine(t *testing.T) {
	it := engine.Item{Task: storage.Task{Title: "pay rent", Category: "home", Due: "2025-01-01"}}
	if got := TaskLine(it); !strings.Contains(got, "[ ] pay rent") || !strings.Contains(got, "#home") || !strings.Contains(got, "(due 2025-01-01)") {
		t.Errorf("TaskLine=%q", got)
	}
	it.Done = true
	if got := TaskLine(it); !strings.Contains(got, "[x] pay rent") {
		t.Errorf("TaskLine done=%q", got)
	}
}
