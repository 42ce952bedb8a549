// Package tui provides the interactive search-as-you-type terminal UI.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/teemow/motionmcp/internal/debounce"
	"github.com/teemow/motionmcp/internal/motion"
	"github.com/teemow/motionmcp/internal/tools/common"
)

// Searcher runs a name search. *tasks.Service implements it.
type Searcher interface {
	Search(ctx context.Context, query string, opts ...motion.CallOption) ([]motion.Task, error)
}

// SearchOptions configures a SearchModel.
type SearchOptions struct {
	Searcher Searcher
	// Delay is the quiet period before a query runs. Defaults to
	// debounce.DefaultDelay.
	Delay time.Duration
	// Context bounds every search. Defaults to context.Background().
	Context context.Context
	// Query pre-fills the input and searches immediately when non-blank.
	Query string
}

// queryReadyMsg is sent by the debouncer once typing has paused.
type queryReadyMsg struct {
	query string
}

// resultsMsg carries the outcome of the search started under handle.
type resultsMsg struct {
	handle debounce.Handle
	query  string
	tasks  []motion.Task
	err    error
}

// SearchModel is the bubbletea model of the search view. Each keystroke
// re-arms a debouncer; when typing pauses the query runs in the background.
// Requests already in flight are not cancelled: their results are tagged
// with the debouncer handle they ran under and dropped when a newer
// keystroke has superseded them.
type SearchModel struct {
	searcher Searcher
	ctx      context.Context
	delay    time.Duration
	debounce *debounce.Debouncer
	send     func(tea.Msg)

	input    textinput.Model
	list     list.Model
	query    string
	loading  bool
	err      error
	selected *TaskItem
	width    int
	height   int
}

// NewSearchModel returns a search view. Call SetSender before the program
// starts so debounced queries can reach the model.
func NewSearchModel(opts SearchOptions) *SearchModel {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Delay <= 0 {
		opts.Delay = debounce.DefaultDelay
	}

	ti := textinput.New()
	ti.Placeholder = "Search tasks by name..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60
	ti.SetValue(opts.Query)

	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 80, 20)
	l.Title = "Motion tasks"
	l.Styles.Title = titleStyle
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)

	return &SearchModel{
		searcher: opts.Searcher,
		ctx:      opts.Context,
		delay:    opts.Delay,
		debounce: debounce.New(),
		input:    ti,
		list:     l,
	}
}

// SetSender installs the function used to deliver debounced queries,
// normally (*tea.Program).Send.
func (m *SearchModel) SetSender(send func(tea.Msg)) {
	m.send = send
}

// Selected returns the task chosen with enter, or nil.
func (m *SearchModel) Selected() *TaskItem {
	return m.selected
}

// Run starts the search view on the alternate screen and returns the
// selected task, if any.
func (m *SearchModel) Run() (*TaskItem, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.SetSender(p.Send)
	if _, err := p.Run(); err != nil {
		return nil, err
	}
	m.debounce.Stop()
	return m.selected, nil
}

// Init implements tea.Model
func (m *SearchModel) Init() tea.Cmd {
	q := strings.TrimSpace(m.input.Value())
	if q == "" {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, m.startSearch(q))
}

// Update implements tea.Model
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-6, 3))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.debounce.Stop()
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(TaskItem); ok {
				m.selected = &item
				m.debounce.Stop()
				return m, tea.Quit
			}
			return m, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			m.queryChanged(m.input.Value())
		}
		return m, cmd

	case queryReadyMsg:
		return m, m.startSearch(msg.query)

	case resultsMsg:
		if msg.handle != m.debounce.Latest() {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.query = msg.query
		if msg.err != nil {
			return m, m.list.SetItems(nil)
		}
		items := make([]list.Item, len(msg.tasks))
		for i, t := range msg.tasks {
			items[i] = TaskItem{Task: t}
		}
		m.list.Title = fmt.Sprintf("%d %s matching %q", len(items), plural(len(items)), msg.query)
		return m, m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// queryChanged re-arms the debouncer for value. A blank query cancels any
// pending search and clears the results.
func (m *SearchModel) queryChanged(value string) {
	q := strings.TrimSpace(value)
	if q == "" {
		m.debounce.Stop()
		m.loading = false
		m.err = nil
		m.query = ""
		m.list.Title = "Motion tasks"
		m.list.SetItems(nil)
		return
	}

	send := m.send
	m.debounce.Arm(m.delay, func() {
		if send != nil {
			send(queryReadyMsg{query: q})
		}
	})
}

// startSearch runs q in the background under the current debouncer handle.
func (m *SearchModel) startSearch(q string) tea.Cmd {
	if m.searcher == nil {
		return nil
	}
	m.loading = true
	handle := m.debounce.Latest()
	searcher, ctx := m.searcher, m.ctx
	return func() tea.Msg {
		found, err := searcher.Search(ctx, q)
		return resultsMsg{handle: handle, query: q, tasks: found, err: err}
	}
}

// View implements tea.Model
func (m *SearchModel) View() string {
	var b strings.Builder
	b.WriteString(inputBoxStyle.Render(m.input.View()))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(common.Message(m.err)))
		b.WriteString("\n")
	case m.loading:
		b.WriteString(helpStyle.Render("Searching..."))
		b.WriteString("\n")
	case m.query == "" && len(m.list.Items()) == 0:
		b.WriteString(helpStyle.Render("Start typing to search your Motion tasks."))
		b.WriteString("\n")
	}

	if len(m.list.Items()) > 0 {
		b.WriteString(m.list.View())
		b.WriteString("\n")
	} else if m.query != "" && m.err == nil && !m.loading {
		b.WriteString(helpStyle.Render(fmt.Sprintf("No tasks found matching %q.", m.query)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: open • ↑/↓: move • esc: quit"))
	return b.String()
}

func plural(n int) string {
	if n == 1 {
		return "task"
	}
	return "tasks"
}
