package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"planner/internal/config"
	"planner/internal/engine"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeFilter
	modeSearch
)

const ruleWidth = 50

// addState collects the three add prompts before the task is stored.
type addState struct {
	step     int
	title    string
	category string
}

func addLabels() []string {
	return []string{"Title", "Category", "Due (YYYY-MM-DD, today, tomorrow, +3d)"}
}

type Model struct {
	ctx    context.Context
	eng    *engine.Engine
	keys   keyMap
	help   help.Model
	input  textinput.Model
	mode   mode
	add    *addState
	vm     engine.ViewModel
	status string
	width  int
	err    error
}

// New builds the shell model and loads the first frame.
func New(ctx context.Context, eng *engine.Engine, cfg config.Config) (Model, error) {
	vm, err := eng.ViewModel(ctx)
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		ctx:   ctx,
		eng:   eng,
		keys:  newKeyMap(cfg.Keys),
		help:  help.New(),
		input: ti,
		mode:  modeList,
		vm:    vm,
	}, nil
}

// Run starts the full-screen program. A storage failure inside the session
// ends it and is returned here.
func Run(ctx context.Context, eng *engine.Engine, cfg config.Config, configPath string, firstLaunch bool) error {
	m, err := New(ctx, eng, cfg)
	if err != nil {
		return err
	}
	if firstLaunch {
		m.status = "Created config at " + configPath
	}

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode != modeList {
			return m.updatePrompt(msg)
		}
		if m.vm.View == engine.ViewCompleted {
			return m.updateCompleted(msg)
		}
		return m.updateDashboard(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) dispatch(cmd engine.Command) (tea.Model, tea.Cmd) {
	vm, err := m.eng.Dispatch(m.ctx, cmd)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.vm = vm
	if m.eng.Done() {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.dispatch(engine.Quit{})
	case key.Matches(msg, m.keys.Up):
		return m.dispatch(engine.MoveCursor{Delta: -1})
	case key.Matches(msg, m.keys.Down):
		return m.dispatch(engine.MoveCursor{Delta: 1})
	case key.Matches(msg, m.keys.Add):
		m.add = &addState{}
		return m.startPrompt(modeAdd, addLabels()[0])
	case key.Matches(msg, m.keys.Done):
		m.status = ""
		return m.dispatch(engine.MarkDone{})
	case key.Matches(msg, m.keys.Delete):
		m.status = ""
		return m.dispatch(engine.Delete{})
	case key.Matches(msg, m.keys.Completed):
		m.status = ""
		return m.dispatch(engine.SwitchView{View: engine.ViewCompleted})
	case key.Matches(msg, m.keys.Search):
		return m.startPrompt(modeSearch, "Search title")
	case key.Matches(msg, m.keys.Filter):
		return m.startPrompt(modeFilter, "Filter by category (#tag)")
	case key.Matches(msg, m.keys.Back):
		m.status = ""
		return m.dispatch(engine.ClearFilter{})
	}
	return m, nil
}

func (m Model) updateCompleted(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.dispatch(engine.Quit{})
	case key.Matches(msg, m.keys.Back):
		return m.dispatch(engine.SwitchView{View: engine.ViewDashboard})
	}
	return m, nil
}

func (m Model) startPrompt(md mode, label string) (tea.Model, tea.Cmd) {
	m.mode = md
	m.status = ""
	m.input.SetValue("")
	m.input.Placeholder = label
	m.input.Prompt = label + ": "
	return m, m.input.Focus()
}

func (m Model) endPrompt(status string) Model {
	m.mode = modeList
	m.add = nil
	m.input.SetValue("")
	m.input.Blur()
	m.status = status
	return m
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m.endPrompt("Cancelled"), nil
	case key.Matches(msg, m.keys.Confirm):
		return m.confirmPrompt()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) confirmPrompt() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	switch m.mode {
	case modeAdd:
		if m.add == nil {
			return m.endPrompt(""), nil
		}
		switch m.add.step {
		case 0:
			m.add.title = value
		case 1:
			m.add.category = strings.TrimPrefix(value, "#")
		default:
			cmd := engine.Add{Title: m.add.title, Category: m.add.category, DueRaw: value}
			return m.endPrompt("Added task").dispatch(cmd)
		}
		m.add.step++
		label := addLabels()[m.add.step]
		m.input.SetValue("")
		m.input.Placeholder = label
		m.input.Prompt = label + ": "
		return m, nil
	case modeFilter:
		return m.endPrompt("").dispatch(engine.SetFilter{Tag: strings.TrimPrefix(value, "#")})
	case modeSearch:
		return m.endPrompt("").dispatch(engine.SetSearch{Query: value})
	}
	return m.endPrompt(""), nil
}

func (m Model) View() string {
	if m.vm.View == engine.ViewCompleted {
		return m.viewCompleted()
	}
	return m.viewDashboard()
}

func (m Model) viewDashboard() string {
	var b strings.Builder

	b.WriteString(Title.Render("📋 Daily Planner (Dashboard)"))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", ruleWidth))
	b.WriteString("\n")
	if m.vm.Subtitle != "" {
		b.WriteString(Subtitle.Render(m.vm.Subtitle))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.vm.Items) == 0 {
		b.WriteString(Dim.Render("No todos yet!"))
		b.WriteString("\n")
	} else {
		for i, it := range m.vm.Items {
			marker := "   "
			if i == m.vm.Cursor {
				marker = "-> "
			}
			b.WriteString(marker)
			b.WriteString(TaskLine(it))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total: %d  Done: %d  Progress: %d%%", m.vm.Total, m.vm.Completed, m.vm.Progress))
	b.WriteString("\n")
	b.WriteString(ProgressBar(m.vm.Progress, m.barWidth()))
	b.WriteString("\n\n")

	if m.mode != modeList {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys.prompt()))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewCompleted() string {
	var b strings.Builder

	b.WriteString(Title.Render(fmt.Sprintf("✅ Completed Todos (press %s to go back)", m.keys.Back.Help().Key)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", ruleWidth))
	b.WriteString("\n\n")

	if len(m.vm.Items) == 0 {
		b.WriteString(Dim.Render("No completed todos yet!"))
		b.WriteString("\n")
	} else {
		for _, it := range m.vm.Items {
			b.WriteString(TaskLine(it))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys.completed()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) barWidth() int {
	if m.width <= 0 {
		return 40
	}
	w := m.width - 8
	if w < 10 {
		w = 10
	}
	return w
}
