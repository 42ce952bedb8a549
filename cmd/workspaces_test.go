package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/motionmcp/internal/tasks"
)

func TestWorkspaces(t *testing.T) {
	api := &fakeMotion{}
	useApp(t, newTestApp(t, "key", api.handler(t)))

	out, err := execute(t, newWorkspacesCmd(), "")
	require.NoError(t, err)
	assert.Equal(t, "ws_1  Personal  (INDIVIDUAL)\n", out)
}

func TestWorkspaces_JSON(t *testing.T) {
	api := &fakeMotion{}
	useApp(t, newTestApp(t, "key", api.handler(t)))

	out, err := execute(t, newWorkspacesCmd(), "", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"ws_1","name":"Personal","type":"INDIVIDUAL"}]`, out)
}

func TestProjects(t *testing.T) {
	api := &fakeMotion{}
	useApp(t, newTestApp(t, "key", api.handler(t)))

	out, err := execute(t, newProjectsCmd(), "", "ws_1")
	require.NoError(t, err)
	assert.Equal(t, "pr_1  Launch\n", out)

	out, err = execute(t, newProjectsCmd(), "", "ws_1", "--json")
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "pr_1", got[0]["id"])
}

func TestProjects_RequiresWorkspace(t *testing.T) {
	_, err := execute(t, newProjectsCmd(), "")
	require.Error(t, err)
}

func TestCalendar(t *testing.T) {
	out, err := execute(t, newCalendarCmd(), "")
	require.NoError(t, err)
	assert.Equal(t, tasks.CalendarURL+"\n", out)
}
