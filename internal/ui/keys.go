package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"planner/internal/config"
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Add       key.Binding
	Done      key.Binding
	Delete    key.Binding
	Completed key.Binding
	Search    key.Binding
	Filter    key.Binding
	Back      key.Binding
	Quit      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

type completedKeys struct {
	Back key.Binding
	Quit key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Up:        binding(k.Up, "up"),
		Down:      binding(k.Down, "down"),
		Add:       binding(k.Add, "add"),
		Done:      binding(k.Done, "done"),
		Delete:    binding(k.Delete, "delete"),
		Completed: binding(k.Completed, "completed"),
		Search:    binding(k.Search, "search"),
		Filter:    binding(k.Filter, "filter"),
		Back:      binding(k.Back, "show all"),
		Quit:      binding(k.Quit, "quit", "ctrl+c"),
		Confirm:   binding(k.Confirm, "confirm"),
		Cancel:    binding(k.Cancel, "cancel"),
	}
}

// binding binds the comma-separated keys in spec plus any fixed keys. Help
// lists only the configured ones.
func binding(spec, desc string, fixed ...string) key.Binding {
	var keys []string
	for _, k := range strings.Split(spec, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	help := strings.Join(keys, "/")
	return key.NewBinding(key.WithKeys(append(keys, fixed...)...), key.WithHelp(help, desc))
}

// completed is the reduced map shown on the completed view, where the back
// key returns to the dashboard.
func (k keyMap) completed() completedKeys {
	back := k.Back
	back.SetHelp(back.Help().Key, "back")
	return completedKeys{Back: back, Quit: k.Quit}
}

func (k keyMap) prompt() promptKeys {
	return promptKeys{Confirm: k.Confirm, Cancel: k.Cancel}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Done, k.Delete, k.Completed, k.Search, k.Filter, k.Back, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		k.ShortHelp(),
	}
}

func (k completedKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Quit}
}

func (k completedKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type promptKeys struct {
	Confirm key.Binding
	Cancel  key.Binding
}

func (k promptKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k promptKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
