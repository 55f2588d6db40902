package tui

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paneldesk/internal/client/api"
	"paneldesk/internal/client/models"
	"paneldesk/internal/client/services"
)

// stubClient satisfies the client interface; only List is ever reached here.
type stubClient struct {
	api.ResourceClient
}

func (stubClient) List(ctx context.Context, resource models.Resource, q models.ListQuery) (models.ListResult, error) {
	return models.ListResult{Page: q.Page, PageSize: q.PageSize, TotalPages: 1}, nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	ctrl := services.NewQueryController(context.Background(), stubClient{}, models.ResourceProjects,
		services.WithDebounceWindow(5*time.Millisecond))
	t.Cleanup(ctrl.Close)

	filters := []FilterOption{
		{Key: "status", Value: "published"},
		{Key: "status", Value: "draft"},
	}
	return newModel(ctrl, make(chan services.Snapshot, 8), models.ResourceProjects, filters)
}

func TestItemLabel(t *testing.T) {
	assert.Equal(t, "12         Launch", itemLabel(json.RawMessage(`{"id":"12","title":"Launch"}`)))
	assert.Equal(t, "7          Alice", itemLabel(json.RawMessage(`{"id":"7","name":"Alice"}`)))
	assert.Equal(t, `{"other":1}`, itemLabel(json.RawMessage(`{"other":1}`)))
	assert.Equal(t, `not json`, itemLabel(json.RawMessage(`not json`)))
}

func TestUpdate_SnapshotRepaintsAndRearms(t *testing.T) {
	m := newTestModel(t)

	snap := services.Snapshot{Items: []json.RawMessage{json.RawMessage(`{"id":"1","title":"A"}`)}, Page: 2, TotalPages: 3}
	next, cmd := m.Update(snapshotMsg(snap))

	got := next.(Model)
	assert.Equal(t, 2, got.snap.Page)
	assert.Len(t, got.snap.Items, 1)
	require.NotNil(t, cmd, "must keep listening for snapshots")
}

func TestHandleKey_TypingDrivesSearch(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	got := next.(Model)

	assert.Equal(t, "a", got.searchInput.Value())
	assert.Equal(t, "a", got.ctrl.Snapshot().State.RawSearchText)
}

func TestHandleKey_Paging(t *testing.T) {
	m := newTestModel(t)
	m.snap = services.Snapshot{Page: 2, TotalPages: 3}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	got := next.(Model)
	assert.Equal(t, 3, got.ctrl.Snapshot().State.Page)

	got.snap = services.Snapshot{Page: 3, TotalPages: 3}
	next, _ = got.Update(tea.KeyMsg{Type: tea.KeyRight})
	got = next.(Model)
	assert.Equal(t, 3, got.ctrl.Snapshot().State.Page, "no page past the last one")

	got.snap = services.Snapshot{Page: 3, TotalPages: 3}
	next, _ = got.Update(tea.KeyMsg{Type: tea.KeyLeft})
	got = next.(Model)
	assert.Equal(t, 2, got.ctrl.Snapshot().State.Page)
}

func TestHandleKey_FilterCycle(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	got := next.(Model)
	assert.Equal(t, []string{"published"}, got.ctrl.Snapshot().State.Filters.Values("status"))

	next, _ = got.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	got = next.(Model)
	assert.Equal(t, []string{"draft"}, got.ctrl.Snapshot().State.Filters.Values("status"))

	// wraps around to no filter
	next, _ = got.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	got = next.(Model)
	assert.Empty(t, got.ctrl.Snapshot().State.Filters.Keys())
}

func TestHandleKey_QuitKeys(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_ShowsStateSections(t *testing.T) {
	m := newTestModel(t)

	m.snap = services.Snapshot{Loading: true}
	assert.Contains(t, m.View(), "loading")

	m.snap = services.Snapshot{Items: []json.RawMessage{json.RawMessage(`{"id":"1","title":"Launch"}`)}, Page: 1, TotalPages: 1, Total: 1}
	view := m.View()
	assert.Contains(t, view, "Launch")
	assert.Contains(t, view, "page 1/1")

	m.snap = services.Snapshot{Err: context.DeadlineExceeded}
	assert.Contains(t, m.View(), "error")
}
