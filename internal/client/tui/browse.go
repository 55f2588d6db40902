// Package tui renders the full-screen collection browser. It follows the Elm
// architecture: the query controller owns all request logic, the model only
// translates key presses into controller calls and repaints on published
// snapshots.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"paneldesk/internal/client/api"
	"paneldesk/internal/client/models"
	"paneldesk/internal/client/services"
)

// FilterOption is one value the f key cycles through for a filter key.
type FilterOption struct {
	Key   string
	Value string
}

// Options configures the browser.
type Options struct {
	DebounceWindow time.Duration
	PageSize       int

	// Filters lists the values reachable via the f key, in cycle order.
	Filters []FilterOption
}

// snapshotMsg carries a controller snapshot into the update loop.
type snapshotMsg services.Snapshot

// Model is the browser's bubbletea model.
type Model struct {
	ctrl    *services.QueryController
	snaps   <-chan services.Snapshot
	title   string
	filters []FilterOption

	searchInput textinput.Model
	snap        services.Snapshot
	filterIdx   int
	width       int
	height      int
}

func newModel(ctrl *services.QueryController, snaps <-chan services.Snapshot, resource models.Resource, filters []FilterOption) Model {
	ti := textinput.New()
	ti.Placeholder = "type to search"
	ti.Prompt = "search: "
	ti.Focus()

	return Model{
		ctrl:        ctrl,
		snaps:       snaps,
		title:       string(resource),
		filters:     filters,
		searchInput: ti,
		filterIdx:   -1,
		snap:        ctrl.Snapshot(),
	}
}

func (m Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-m.snaps)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForSnapshot())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case snapshotMsg:
		m.snap = services.Snapshot(msg)
		return m, m.waitForSnapshot()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "left", "ctrl+p":
		if m.snap.Page > 1 {
			m.ctrl.GoToPage(m.snap.Page - 1)
		}
		return m, nil

	case "right", "ctrl+n":
		if m.snap.Page < m.snap.TotalPages {
			m.ctrl.GoToPage(m.snap.Page + 1)
		}
		return m, nil

	case "ctrl+a":
		m.ctrl.ShowAll()
		return m, nil

	case "ctrl+r":
		m.ctrl.Refresh()
		return m, nil

	case "ctrl+f":
		m.cycleFilter()
		return m, nil

	case "ctrl+x":
		m.filterIdx = -1
		m.ctrl.ClearFilters()
		return m, nil
	}

	// everything else belongs to the search box
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.ctrl.SetSearchText(m.searchInput.Value())
	return m, cmd
}

// cycleFilter advances through the configured filter options, wrapping around
// to no filter after the last one.
func (m *Model) cycleFilter() {
	if len(m.filters) == 0 {
		return
	}
	m.filterIdx++
	if m.filterIdx >= len(m.filters) {
		m.filterIdx = -1
		m.ctrl.ClearFilters()
		return
	}
	opt := m.filters[m.filterIdx]
	m.ctrl.SetFilter(opt.Key, opt.Value)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("paneldesk · " + m.title))
	b.WriteString("\n\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n")

	if m.filterIdx >= 0 && m.filterIdx < len(m.filters) {
		opt := m.filters[m.filterIdx]
		b.WriteString(filterStyle.Render(fmt.Sprintf("filter: %s=%s", opt.Key, opt.Value)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.snap.Err != nil:
		b.WriteString(errorStyle.Render("error: " + m.snap.Err.Error()))
		b.WriteString("\n")
	case m.snap.Loading:
		b.WriteString(loadingStyle.Render("loading…"))
		b.WriteString("\n")
	case len(m.snap.Items) == 0:
		b.WriteString(itemStyle.Render("no results"))
		b.WriteString("\n")
	default:
		for _, raw := range m.snap.Items {
			b.WriteString(itemStyle.Render(itemLabel(raw)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	footer := fmt.Sprintf("page %d/%d · %d total", m.snap.Page, m.snap.TotalPages, m.snap.Total)
	footer += " · ←/→ pages · ^A all · ^F filter · ^X clear · ^R reload · esc quit"
	b.WriteString(footerStyle.Render(footer))
	b.WriteString("\n")

	return b.String()
}

// itemLabel extracts a human-readable line from a raw record. Records are
// schemaless here; title, then name, then id is used, whichever is present.
func itemLabel(raw json.RawMessage) string {
	var fields struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return string(raw)
	}

	label := fields.Title
	if label == "" {
		label = fields.Name
	}
	if label == "" {
		label = string(raw)
	}
	if fields.ID != "" {
		return fmt.Sprintf("%-10s %s", fields.ID, label)
	}
	return label
}

// Run opens the browser for one collection and blocks until the user quits.
func Run(ctx context.Context, client api.ResourceClient, resource models.Resource, opts Options) error {
	snaps := make(chan services.Snapshot, 8)

	ctrlOpts := []services.QueryControllerOption{
		services.WithListener(func(s services.Snapshot) {
			// never block a controller goroutine on the UI; when the UI
			// lags, drop the oldest pending snapshot instead of the newest
			for {
				select {
				case snaps <- s:
					return
				default:
					select {
					case <-snaps:
					default:
					}
				}
			}
		}),
	}
	if opts.DebounceWindow > 0 {
		ctrlOpts = append(ctrlOpts, services.WithDebounceWindow(opts.DebounceWindow))
	}
	if opts.PageSize > 0 {
		ctrlOpts = append(ctrlOpts, services.WithPageSize(opts.PageSize))
	}

	ctrl := services.NewQueryController(ctx, client, resource, ctrlOpts...)
	defer ctrl.Close()
	ctrl.Refresh()

	m := newModel(ctrl, snaps, resource, opts.Filters)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
