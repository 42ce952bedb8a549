package tasks

import (
	"github.com/teemow/motionmcp/internal/motion"
)

const (
	// CalendarURL is Motion's calendar web view.
	CalendarURL = "https://app.usemotion.com/web/calendar"

	// descriptionLimit is the number of characters of a description kept in
	// list output.
	descriptionLimit = 200
)

// TaskURL links to a task in the Motion calendar.
func TaskURL(id string) string {
	return CalendarURL + "?taskId=" + id
}

// FormattedChunk is a chunk as shown in tool output.
type FormattedChunk struct {
	ID             string           `json:"id"`
	Duration       *motion.Duration `json:"duration"`
	ScheduledStart string           `json:"scheduledStart,omitempty"`
	ScheduledEnd   string           `json:"scheduledEnd,omitempty"`
	CompletedTime  *string          `json:"completedTime"`
	IsFixed        bool             `json:"isFixed"`
}

// FormattedTask is the list form of a task in tool output.
type FormattedTask struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Priority       motion.Priority  `json:"priority"`
	Status         string           `json:"status"`
	Completed      bool             `json:"completed"`
	Project        *string          `json:"project"`
	Workspace      string           `json:"workspace"`
	Duration       *motion.Duration `json:"duration"`
	DueDate        string           `json:"dueDate,omitempty"`
	ScheduledStart string           `json:"scheduledStart,omitempty"`
	ScheduledEnd   string           `json:"scheduledEnd,omitempty"`
	Chunks         []FormattedChunk `json:"chunks"`
	Description    *string          `json:"description"`
}

// FormatTask converts a task to its list form. Descriptions are cut to 200
// characters; a missing project or description renders as null.
func FormatTask(t motion.Task) FormattedTask {
	f := FormattedTask{
		ID:             t.ID,
		Name:           t.Name,
		Priority:       t.Priority,
		Status:         t.Status.Name,
		Completed:      t.Completed,
		Workspace:      t.Workspace.Name,
		Duration:       t.Duration,
		DueDate:        t.DueDate,
		ScheduledStart: t.ScheduledStart,
		ScheduledEnd:   t.ScheduledEnd,
		Chunks:         make([]FormattedChunk, 0, len(t.Chunks)),
	}
	if t.Project != nil && t.Project.Name != "" {
		name := t.Project.Name
		f.Project = &name
	}
	if t.Description != "" {
		d := truncate(t.Description, descriptionLimit)
		f.Description = &d
	}
	for _, c := range t.Chunks {
		f.Chunks = append(f.Chunks, FormattedChunk{
			ID:             c.ID,
			Duration:       c.Duration,
			ScheduledStart: c.ScheduledStart,
			ScheduledEnd:   c.ScheduledEnd,
			CompletedTime:  c.CompletedTime,
			IsFixed:        c.IsFixed,
		})
	}
	return f
}

// FormatTasks formats every task, preserving order. The result is never nil.
func FormatTasks(tasks []motion.Task) []FormattedTask {
	out := make([]FormattedTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, FormatTask(t))
	}
	return out
}

// Ref is an id/name pair.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Assignee is a task assignee in detail output.
type Assignee struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TaskDetail is the full form of a single task in tool output.
type TaskDetail struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Priority        motion.Priority  `json:"priority"`
	Status          string           `json:"status"`
	Completed       bool             `json:"completed"`
	DueDate         string           `json:"dueDate,omitempty"`
	Duration        *motion.Duration `json:"duration"`
	Project         *Ref             `json:"project"`
	Workspace       Ref              `json:"workspace"`
	Assignees       []Assignee       `json:"assignees"`
	Labels          []string         `json:"labels"`
	ScheduledStart  string           `json:"scheduledStart,omitempty"`
	ScheduledEnd    string           `json:"scheduledEnd,omitempty"`
	SchedulingIssue bool             `json:"schedulingIssue"`
	CreatedTime     string           `json:"createdTime,omitempty"`
	UpdatedTime     string           `json:"updatedTime,omitempty"`
}

// FormatTaskDetail converts a task to its detail form.
func FormatTaskDetail(t motion.Task) TaskDetail {
	d := TaskDetail{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		Priority:        t.Priority,
		Status:          t.Status.Name,
		Completed:       t.Completed,
		DueDate:         t.DueDate,
		Duration:        t.Duration,
		Workspace:       Ref{ID: t.Workspace.ID, Name: t.Workspace.Name},
		Assignees:       make([]Assignee, 0, len(t.Assignees)),
		Labels:          make([]string, 0, len(t.Labels)),
		ScheduledStart:  t.ScheduledStart,
		ScheduledEnd:    t.ScheduledEnd,
		SchedulingIssue: t.SchedulingIssue,
		CreatedTime:     t.CreatedTime,
		UpdatedTime:     t.UpdatedTime,
	}
	if t.Project != nil {
		d.Project = &Ref{ID: t.Project.ID, Name: t.Project.Name}
	}
	for _, a := range t.Assignees {
		d.Assignees = append(d.Assignees, Assignee{ID: a.ID, Name: a.Name, Email: a.Email})
	}
	for _, l := range t.Labels {
		d.Labels = append(d.Labels, l.Name)
	}
	return d
}

// FormatDuration renders a duration for display: symbolic values verbatim,
// minute counts as "N min", and "" when there is none.
func FormatDuration(d *motion.Duration) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
