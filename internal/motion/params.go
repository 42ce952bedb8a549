package motion

import (
	"net/url"
	"strings"
)

// ListTasksParams are the server-side filters of GET /tasks.
type ListTasksParams struct {
	// Name matches task names by substring, server side.
	Name        string
	WorkspaceID string
	AssigneeID  string
	Status      []string
	ProjectID   string
	Label       string
	// IncludeAllStatuses includes resolved tasks.
	IncludeAllStatuses bool
}

// Encode returns the canonical query string for the params plus cursor.
// Parameters appear in a fixed order so equal filters always produce the
// same cache key.
func (p ListTasksParams) Encode(cursor string) string {
	var b strings.Builder
	add := func(key, value string) {
		if value == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	add("name", p.Name)
	add("workspaceId", p.WorkspaceID)
	add("assigneeId", p.AssigneeID)
	for _, s := range p.Status {
		add("status", s)
	}
	add("projectId", p.ProjectID)
	add("label", p.Label)
	if p.IncludeAllStatuses {
		add("includeAllStatuses", "true")
	}
	add("cursor", cursor)
	return b.String()
}

// CacheKey is the tasks-category key for the first page of these params.
func (p ListTasksParams) CacheKey() string {
	if q := p.Encode(""); q != "" {
		return q
	}
	return "all"
}
