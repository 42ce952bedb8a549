package instrumentation

import "unicode/utf8"

// Cardinality management helpers for metrics and operational logs.
//
// Free-text inputs such as search queries and task names are unbounded and
// may contain personal data. Reduce them to a coarse shape before using them
// as a label or a general log field.

// Query shape buckets returned by QueryShape.
const (
	QueryShapeEmpty = "empty"
	QueryShapeShort = "short"
	QueryShapeLong  = "long"
)

// shortQueryRunes is the longest query still bucketed as short.
const shortQueryRunes = 16

// QueryShape reduces a free-text query to a low-cardinality bucket.
//
// Example:
//
//	QueryShape("")                      // "empty"
//	QueryShape("design")                // "short"
//	QueryShape("quarterly planning doc") // "long"
func QueryShape(query string) string {
	switch n := utf8.RuneCountInString(query); {
	case n == 0:
		return QueryShapeEmpty
	case n <= shortQueryRunes:
		return QueryShapeShort
	default:
		return QueryShapeLong
	}
}

// Motion API operation names. Status and service constants live in config.go.
const (
	OperationListTasks      = "list_tasks"
	OperationGetTask        = "get_task"
	OperationCreateTask     = "create_task"
	OperationListWorkspaces = "list_workspaces"
	OperationListProjects   = "list_projects"
)
