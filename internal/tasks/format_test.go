package tasks

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/motionmcp/internal/motion"
)

func TestFormatTask(t *testing.T) {
	completed := "2024-12-20T11:00:00Z"
	task := motion.Task{
		ID:          "tk_1",
		Name:        "Plan",
		Description: strings.Repeat("é", 250),
		Priority:    motion.PriorityHigh,
		Status:      motion.Status{Name: "Todo"},
		Workspace:   motion.Workspace{ID: "ws_1", Name: "Personal"},
		Duration:    motion.Minutes(60),
		Chunks: []motion.Chunk{{
			ID:             "ch_1",
			Duration:       motion.Minutes(30),
			ScheduledStart: "2024-12-20T10:00:00Z",
			CompletedTime:  &completed,
		}},
	}

	f := FormatTask(task)
	assert.Equal(t, "Todo", f.Status)
	assert.Equal(t, "Personal", f.Workspace)
	assert.Nil(t, f.Project)
	require.NotNil(t, f.Description)
	assert.Len(t, []rune(*f.Description), 200)
	require.Len(t, f.Chunks, 1)
	assert.Equal(t, &completed, f.Chunks[0].CompletedTime)

	raw, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"project":null`)
	assert.Contains(t, string(raw), `"duration":60`)
}

func TestFormatTask_ShortDescriptionAndProject(t *testing.T) {
	f := FormatTask(motion.Task{
		Description: "short",
		Project:     &motion.ProjectRef{ID: "pr_1", Name: "Garden"},
	})
	require.NotNil(t, f.Project)
	assert.Equal(t, "Garden", *f.Project)
	assert.Equal(t, "short", *f.Description)
	assert.NotNil(t, f.Chunks)
}

func TestFormatTasks_NeverNil(t *testing.T) {
	raw, err := json.Marshal(FormatTasks(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestFormatTaskDetail(t *testing.T) {
	d := FormatTaskDetail(motion.Task{
		ID:        "tk_1",
		Name:      "Plan",
		Workspace: motion.Workspace{ID: "ws_1", Name: "Personal"},
		Project:   &motion.ProjectRef{ID: "pr_1", Name: "Garden"},
		Assignees: []motion.User{{ID: "u_1", Name: "Sam", Email: "sam@example.com"}},
		Labels:    []motion.Label{{Name: "home"}, {Name: "weekend"}},
	})

	assert.Equal(t, Ref{ID: "ws_1", Name: "Personal"}, d.Workspace)
	assert.Equal(t, &Ref{ID: "pr_1", Name: "Garden"}, d.Project)
	assert.Equal(t, []Assignee{{ID: "u_1", Name: "Sam", Email: "sam@example.com"}}, d.Assignees)
	assert.Equal(t, []string{"home", "weekend"}, d.Labels)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "", FormatDuration(nil))
	assert.Equal(t, "45 min", FormatDuration(motion.Minutes(45)))
	assert.Equal(t, "REMINDER", FormatDuration(motion.Symbolic("REMINDER")))
}

func TestTaskURL(t *testing.T) {
	assert.Equal(t, "https://app.usemotion.com/web/calendar?taskId=tk_1", TaskURL("tk_1"))
}

func TestFilterParams_Describe(t *testing.T) {
	assert.Equal(t, "", FilterParams{}.Describe())
	assert.Equal(t,
		"priority: HIGH, date: thisWeek, status: Todo or Blocked",
		FilterParams{Priority: "HIGH", DateRange: "thisWeek", Status: []string{"Todo", "Blocked"}}.Describe())
}
