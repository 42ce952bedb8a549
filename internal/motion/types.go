package motion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Priority is a Motion task priority.
type Priority string

// Task priorities, most urgent first.
const (
	PriorityASAP   Priority = "ASAP"
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Priorities lists every valid priority, most urgent first.
var Priorities = []Priority{PriorityASAP, PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority validates s (case-insensitive).
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	for _, valid := range Priorities {
		if p == valid {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q, must be one of: ASAP, HIGH, MEDIUM, LOW", s)
}

// DeadlineType controls how strictly auto-scheduling honors the due date.
type DeadlineType string

const (
	DeadlineHard DeadlineType = "HARD"
	DeadlineSoft DeadlineType = "SOFT"
	DeadlineNone DeadlineType = "NONE"
)

// Symbolic durations accepted by Motion in place of a minute count.
const (
	DurationNone     = "NONE"
	DurationReminder = "REMINDER"
)

// Duration is either a number of minutes or a symbolic value such as
// "NONE" or "REMINDER". On the wire it is a JSON number or string.
type Duration struct {
	Minutes int
	Symbol  string
}

// Minutes returns a Duration of n minutes.
func Minutes(n int) *Duration {
	return &Duration{Minutes: n}
}

// Symbolic returns a Duration carrying a non-numeric value verbatim.
func Symbolic(s string) *Duration {
	return &Duration{Symbol: s}
}

// IsSymbolic reports whether d carries a string value.
func (d Duration) IsSymbolic() bool {
	return d.Symbol != ""
}

// String renders NONE/REMINDER (or any symbolic value) verbatim and minute
// counts as "N min".
func (d Duration) String() string {
	if d.IsSymbolic() {
		return d.Symbol
	}
	return fmt.Sprintf("%d min", d.Minutes)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	if d.IsSymbolic() {
		return json.Marshal(d.Symbol)
	}
	return json.Marshal(d.Minutes)
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = Duration{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if n, err := strconv.Atoi(s); err == nil {
			*d = Duration{Minutes: n}
			return nil
		}
		*d = Duration{Symbol: s}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("duration must be a number or string: %w", err)
	}
	*d = Duration{Minutes: int(f)}
	return nil
}

// Status is a workflow status of a task or project.
type Status struct {
	Name             string `json:"name"`
	IsDefaultStatus  bool   `json:"isDefaultStatus"`
	IsResolvedStatus bool   `json:"isResolvedStatus"`
}

// Label is a task label.
type Label struct {
	Name string `json:"name"`
}

// User is a Motion user referenced as creator or assignee.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Chunk is a scheduled time block belonging to exactly one task.
type Chunk struct {
	ID             string    `json:"id"`
	Duration       *Duration `json:"duration,omitempty"`
	ScheduledStart string    `json:"scheduledStart,omitempty"`
	ScheduledEnd   string    `json:"scheduledEnd,omitempty"`
	CompletedTime  *string   `json:"completedTime"`
	IsFixed        bool      `json:"isFixed"`
}

// Workspace groups projects and tasks.
type Workspace struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	TeamID   string   `json:"teamId,omitempty"`
	Type     string   `json:"type"`
	Labels   []Label  `json:"labels,omitempty"`
	Statuses []Status `json:"statuses,omitempty"`
}

// Project belongs to exactly one workspace.
type Project struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	WorkspaceID   string  `json:"workspaceId"`
	PriorityLevel string  `json:"priorityLevel,omitempty"`
	DueDate       string  `json:"dueDate,omitempty"`
	StartDate     string  `json:"startDate,omitempty"`
	CompletedTime string  `json:"completedTime,omitempty"`
	Status        *Status `json:"status,omitempty"`
	Manager       *User   `json:"manager,omitempty"`
	TaskCount     int     `json:"taskCount,omitempty"`
}

// ProjectRef is the project summary embedded in a task.
type ProjectRef struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	WorkspaceID string  `json:"workspaceId,omitempty"`
	Status      *Status `json:"status,omitempty"`
}

// Task is an immutable snapshot of a Motion task as of fetch time.
type Task struct {
	ID                    string      `json:"id"`
	Name                  string      `json:"name"`
	Description           string      `json:"description,omitempty"`
	Duration              *Duration   `json:"duration,omitempty"`
	DueDate               string      `json:"dueDate,omitempty"`
	DeadlineType          string      `json:"deadlineType,omitempty"`
	ParentRecurringTaskID string      `json:"parentRecurringTaskId,omitempty"`
	Completed             bool        `json:"completed"`
	CompletedTime         string      `json:"completedTime,omitempty"`
	UpdatedTime           string      `json:"updatedTime,omitempty"`
	StartOn               string      `json:"startOn,omitempty"`
	Creator               *User       `json:"creator,omitempty"`
	Project               *ProjectRef `json:"project,omitempty"`
	Workspace             Workspace   `json:"workspace"`
	Status                Status      `json:"status"`
	Priority              Priority    `json:"priority"`
	Labels                []Label     `json:"labels,omitempty"`
	Assignees             []User      `json:"assignees,omitempty"`
	ScheduledStart        string      `json:"scheduledStart,omitempty"`
	CreatedTime           string      `json:"createdTime,omitempty"`
	ScheduledEnd          string      `json:"scheduledEnd,omitempty"`
	SchedulingIssue       bool        `json:"schedulingIssue"`
	LastInteractedTime    string      `json:"lastInteractedTime,omitempty"`
	Chunks                []Chunk     `json:"chunks,omitempty"`
}

// AutoScheduled asks Motion to place the task on the calendar.
type AutoScheduled struct {
	StartDate    string       `json:"startDate"`
	DeadlineType DeadlineType `json:"deadlineType"`
	Schedule     string       `json:"schedule"`
}

// CreateTaskRequest is the body of POST /tasks. Optional fields are omitted
// when empty.
type CreateTaskRequest struct {
	Name          string         `json:"name"`
	WorkspaceID   string         `json:"workspaceId"`
	DueDate       string         `json:"dueDate,omitempty"`
	Duration      *Duration      `json:"duration,omitempty"`
	Status        string         `json:"status,omitempty"`
	AutoScheduled *AutoScheduled `json:"autoScheduled,omitempty"`
	ProjectID     string         `json:"projectId,omitempty"`
	Description   string         `json:"description,omitempty"`
	Priority      Priority       `json:"priority,omitempty"`
	Labels        []string       `json:"labels,omitempty"`
	AssigneeID    string         `json:"assigneeId,omitempty"`
}

// Validate checks the fields Motion always requires.
func (r CreateTaskRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("Task name is required. Provide a name for the task.")
	}
	if r.WorkspaceID == "" {
		return NewValidationError("workspaceId is required")
	}
	if r.Priority != "" {
		if _, err := ParsePriority(string(r.Priority)); err != nil {
			return NewValidationError("%s", err.Error())
		}
	}
	return nil
}

// CreateStatus reports whether a create call produced a task.
type CreateStatus string

const (
	CreateSuccess CreateStatus = "SUCCESS"
	CreateFailure CreateStatus = "FAILURE"
)

// CreateTaskResult is synthesized from the created entity: Motion returns
// the task itself, not a status envelope.
type CreateTaskResult struct {
	Status CreateStatus `json:"status"`
	ID     *string      `json:"id"`
	Task   *Task        `json:"-"`
}

// Succeeded reports whether the task was created.
func (r CreateTaskResult) Succeeded() bool {
	return r.Status == CreateSuccess && r.ID != nil
}

// PageMeta is the pagination block of list responses.
type PageMeta struct {
	NextCursor string `json:"nextCursor,omitempty"`
	PageSize   int    `json:"pageSize,omitempty"`
}

// ListTasksResponse is one page of GET /tasks.
type ListTasksResponse struct {
	Tasks []Task    `json:"tasks"`
	Meta  *PageMeta `json:"meta,omitempty"`
}

// NextCursor returns the cursor of the following page, or "".
func (r ListTasksResponse) NextCursor() string {
	if r.Meta == nil {
		return ""
	}
	return r.Meta.NextCursor
}

type listWorkspacesResponse struct {
	Workspaces []Workspace `json:"workspaces"`
	Meta       *PageMeta   `json:"meta,omitempty"`
}

type listProjectsResponse struct {
	Projects []Project `json:"projects"`
	Meta     *PageMeta `json:"meta,omitempty"`
}
