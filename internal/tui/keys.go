package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down       key.Binding
	Toggle, Score  key.Binding
	Search, Status key.Binding
	Category       key.Binding
	Flat, Mini     key.Binding
	Clear, Reload  key.Binding
	Help, Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		Score:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "score")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Status:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "status filter")),
		Category: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
		Flat:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group/flat")),
		Mini:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "compact")),
		Clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filters")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Score, k.Search, k.Status, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Score},
		{k.Search, k.Status, k.Category, k.Clear},
		{k.Flat, k.Mini, k.Reload, k.Help, k.Quit},
	}
}
