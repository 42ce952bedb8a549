package tasks

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teemow/motionmcp/internal/daterange"
	"github.com/teemow/motionmcp/internal/motion"
)

const (
	// DefaultDurationMinutes is used when no duration is given.
	DefaultDurationMinutes = 30

	// WorkHoursSchedule is the Motion schedule new tasks are placed on.
	WorkHoursSchedule = "Work Hours"
)

// Directory resolves the workspaces and projects a task may reference.
type Directory interface {
	GetWorkspaces(ctx context.Context, opts ...motion.CallOption) ([]motion.Workspace, error)
	GetProjects(ctx context.Context, workspaceID string, opts ...motion.CallOption) ([]motion.Project, error)
}

// Assembler turns an Input into a validated CreateTaskRequest.
type Assembler struct {
	dir Directory
	now func() time.Time
}

// NewAssembler returns an Assembler resolving references through dir.
// now defaults to time.Now.
func NewAssembler(dir Directory, now func() time.Time) *Assembler {
	if now == nil {
		now = time.Now
	}
	return &Assembler{dir: dir, now: now}
}

// Build validates in and assembles the request. Checks run in order: name,
// workspace, project, duration, due date, priority. The first failure is
// returned as a *motion.Error.
func (a *Assembler) Build(ctx context.Context, in Input, mode Mode) (motion.CreateTaskRequest, error) {
	var req motion.CreateTaskRequest

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return req, motion.NewValidationError("Task name is required. Provide a name for the task.")
	}

	workspaceID, err := a.resolveWorkspace(ctx, strings.TrimSpace(in.WorkspaceID))
	if err != nil {
		return req, err
	}

	projectID := strings.TrimSpace(in.ProjectID)
	if projectID != "" {
		if err := a.checkProject(ctx, workspaceID, projectID); err != nil {
			return req, err
		}
	}

	dueDate, err := normalizeDueDate(in.DueDate, mode)
	if err != nil {
		return req, err
	}

	var priority motion.Priority
	if strings.TrimSpace(in.Priority) != "" {
		priority, err = motion.ParsePriority(in.Priority)
		if err != nil {
			return req, motion.NewValidationError("Invalid priority %q. Use one of: ASAP, HIGH, MEDIUM, LOW.", in.Priority)
		}
	}

	req = motion.CreateTaskRequest{
		Name:        name,
		WorkspaceID: workspaceID,
		DueDate:     dueDate,
		Duration:    ParseDuration(in.Duration),
		Status:      strings.TrimSpace(in.Status),
		ProjectID:   projectID,
		Description: in.Description,
		Priority:    priority,
		Labels:      in.Labels,
		AssigneeID:  strings.TrimSpace(in.AssigneeID),
	}
	req.AutoScheduled = a.autoSchedule(dueDate)
	return req, nil
}

func (a *Assembler) resolveWorkspace(ctx context.Context, requested string) (string, error) {
	workspaces, err := a.dir.GetWorkspaces(ctx)
	if err != nil {
		return "", err
	}
	if len(workspaces) == 0 {
		return "", motion.NewValidationError("No workspaces found. Use the get_workspaces tool to see available workspaces.")
	}
	if requested == "" {
		return workspaces[0].ID, nil
	}
	for _, w := range workspaces {
		if w.ID == requested {
			return requested, nil
		}
	}

	var b strings.Builder
	for i, w := range workspaces {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s (%s)", w.Name, w.ID)
	}
	return "", motion.NewInvalidReferenceError(
		"Invalid workspaceId %q. Available workspaces:\n%s\n\nUse the get_workspaces tool to retrieve the correct workspace ID.",
		requested, b.String())
}

func (a *Assembler) checkProject(ctx context.Context, workspaceID, projectID string) error {
	projects, err := a.dir.GetProjects(ctx, workspaceID)
	if err != nil {
		return err
	}
	for _, p := range projects {
		if p.ID == projectID {
			return nil
		}
	}

	listing := "No projects found"
	if len(projects) > 0 {
		var b strings.Builder
		for i, p := range projects {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "- %s (%s)", p.Name, p.ID)
		}
		listing = b.String()
	}
	return motion.NewInvalidReferenceError(
		"Invalid projectId %q for workspace %s. Available projects:\n%s\n\nUse the get_projects tool with workspaceId %q to retrieve the correct project ID.",
		projectID, workspaceID, listing, workspaceID)
}

// autoSchedule starts scheduling at midnight UTC of the due date, or of
// today when there is none.
func (a *Assembler) autoSchedule(dueDate string) *motion.AutoScheduled {
	if dueDate == "" {
		return &motion.AutoScheduled{
			StartDate:    a.now().UTC().Format("2006-01-02") + "T00:00:00Z",
			DeadlineType: motion.DeadlineSoft,
			Schedule:     WorkHoursSchedule,
		}
	}
	return &motion.AutoScheduled{
		StartDate:    dueDate + "T00:00:00Z",
		DeadlineType: motion.DeadlineHard,
		Schedule:     WorkHoursSchedule,
	}
}

// normalizeDueDate returns the due date as YYYY-MM-DD, or "" when it is
// optional and absent.
func normalizeDueDate(raw string, mode Mode) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if mode == ModeTool {
			return "", motion.NewValidationError("dueDate is required when creating a scheduled task. Please provide a date in YYYY-MM-DD format (e.g., 2024-12-25).")
		}
		return "", nil
	}

	if d, err := daterange.ParseDate(raw); err == nil {
		return d.String(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Format("2006-01-02"), nil
	}
	return "", motion.NewValidationError("Invalid date format. Please use YYYY-MM-DD format (e.g., 2024-12-25).")
}

// ParseDuration reads a duration the way a lenient integer parser would:
// leading digits (after optional whitespace and sign) become minutes, any
// other non-blank text passes through as a symbolic value, and blank input
// yields the 30 minute default.
func ParseDuration(raw string) *motion.Duration {
	s := strings.TrimSpace(raw)
	if s == "" {
		return motion.Minutes(DefaultDurationMinutes)
	}

	end := 0
	if s[0] == '+' || s[0] == '-' {
		end = 1
	}
	digits := end
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits > end {
		if n, err := strconv.Atoi(s[:digits]); err == nil {
			return motion.Minutes(n)
		}
	}
	return motion.Symbolic(s)
}
