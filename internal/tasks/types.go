package tasks

import (
	"strings"

	"github.com/teemow/motionmcp/internal/motion"
)

// Mode selects the creation rules of the entry point building a task.
type Mode int

const (
	// ModeTool is used by the MCP tool: a due date is required.
	ModeTool Mode = iota
	// ModeInteractive is used by the CLI form: the due date is optional
	// and a missing one yields a SOFT deadline starting today.
	ModeInteractive
)

func (m Mode) String() string {
	if m == ModeInteractive {
		return "interactive"
	}
	return "tool"
}

// Input is the raw, unvalidated request to create a task.
type Input struct {
	Name        string
	WorkspaceID string
	ProjectID   string
	// DueDate is YYYY-MM-DD; an RFC 3339 timestamp is reduced to its UTC date.
	DueDate string
	// Duration is minutes as text, or a symbolic value such as NONE.
	Duration    string
	Priority    string
	Description string
	Labels      []string
	AssigneeID  string
	Status      string
}

// Created describes a task that was created.
type Created struct {
	ID      string
	Request motion.CreateTaskRequest
	Task    *motion.Task
	URL     string
}

// FilterParams combines server-side filters with client-side date range
// and priority filtering.
type FilterParams struct {
	Priority    string
	DateRange   string
	Status      []string
	WorkspaceID string
	ProjectID   string
	Label       string
	Name        string
}

// Describe renders the client-visible filters, e.g.
// "priority: HIGH, date: thisWeek, status: Todo".
func (p FilterParams) Describe() string {
	var parts []string
	if p.Priority != "" {
		parts = append(parts, "priority: "+p.Priority)
	}
	if p.DateRange != "" {
		parts = append(parts, "date: "+p.DateRange)
	}
	if len(p.Status) > 0 {
		parts = append(parts, "status: "+strings.Join(p.Status, " or "))
	}
	return strings.Join(parts, ", ")
}
