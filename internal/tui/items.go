package tui

import (
	"strings"

	"github.com/teemow/motionmcp/internal/motion"
	"github.com/teemow/motionmcp/internal/tasks"
)

// TaskItem implements list.Item for a search result.
type TaskItem struct {
	Task motion.Task
}

func (i TaskItem) FilterValue() string { return i.Task.Name }
func (i TaskItem) Title() string       { return i.Task.Name }

// Description shows priority, status, due date, workspace and project.
func (i TaskItem) Description() string {
	t := i.Task
	parts := make([]string, 0, 5)
	if p := renderPriority(t.Priority); p != "" {
		parts = append(parts, p)
	}
	if t.Status.Name != "" {
		parts = append(parts, t.Status.Name)
	}
	if t.DueDate != "" {
		parts = append(parts, "due "+dueDay(t.DueDate))
	}
	if t.Workspace.Name != "" {
		parts = append(parts, t.Workspace.Name)
	}
	if t.Project != nil && t.Project.Name != "" {
		parts = append(parts, t.Project.Name)
	}
	return strings.Join(parts, " • ")
}

// Line renders the item on one line for non-interactive output.
func (i TaskItem) Line() string {
	if d := i.Description(); d != "" {
		return i.Title() + "  " + helpStyle.Render("("+d+")")
	}
	return i.Title()
}

// URL is the task's page in the Motion web app.
func (i TaskItem) URL() string {
	return tasks.TaskURL(i.Task.ID)
}

// dueDay keeps the date part of a due date timestamp.
func dueDay(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}
