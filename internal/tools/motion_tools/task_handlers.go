package motion_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/motionmcp/internal/motion"
	"github.com/teemow/motionmcp/internal/server"
	"github.com/teemow/motionmcp/internal/tasks"
	"github.com/teemow/motionmcp/internal/tools/common"
)

// TaskList is the payload of every tool that returns several tasks.
type TaskList struct {
	Message string                `json:"message"`
	Tasks   []tasks.FormattedTask `json:"tasks"`
	Count   int                   `json:"count"`
}

// TaskDetails is the payload of get_task_details.
type TaskDetails struct {
	Message string           `json:"message"`
	Task    tasks.TaskDetail `json:"task"`
	URL     string           `json:"url"`
}

// CreatedTask summarizes a task returned by create_task.
type CreatedTask struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	WorkspaceID   string           `json:"workspaceId"`
	DueDate       *string          `json:"dueDate"`
	Priority      motion.Priority  `json:"priority"`
	Duration      *motion.Duration `json:"duration"`
	AutoScheduled bool             `json:"autoScheduled"`
}

// CreateResult is the payload of create_task.
type CreateResult struct {
	Message string      `json:"message"`
	Task    CreatedTask `json:"task"`
	URL     string      `json:"url"`
}

// view describes one of the fixed-period listing tools.
type view struct {
	list  func(svc *tasks.Service, ctx context.Context, workspaceID string, opts ...motion.CallOption) ([]motion.Task, error)
	found string
	empty string
}

var (
	todayView = view{
		list:  (*tasks.Service).Today,
		found: "Found %d %s due today.",
		empty: "No tasks due today.",
	}
	tomorrowView = view{
		list:  (*tasks.Service).Tomorrow,
		found: "Found %d %s scheduled for tomorrow.",
		empty: "No tasks scheduled for tomorrow.",
	}
	nextWeekView = view{
		list:  (*tasks.Service).NextWeek,
		found: "Found %d %s scheduled for next week.",
		empty: "No tasks scheduled for next week.",
	}
)

func listPeriodHandler(sc *server.ServerContext, v view) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		workspaceID := common.StringArg(request.GetArguments(), "workspaceId")

		found, err := v.list(sc.Tasks(), ctx, workspaceID)
		if err != nil {
			return common.ErrorResult(err), nil
		}

		msg := v.empty
		if len(found) > 0 {
			msg = fmt.Sprintf(v.found, len(found), plural(len(found)))
		}
		return taskListResult(msg, found), nil
	}
}

func handleSearchTasks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	query := common.StringArg(request.GetArguments(), "query")

	found, err := sc.Tasks().Search(ctx, query)
	if err != nil {
		return common.ErrorResult(err), nil
	}

	msg := fmt.Sprintf("No tasks found matching %q.", query)
	if len(found) > 0 {
		msg = fmt.Sprintf("Found %d %s matching %q.", len(found), plural(len(found)), query)
	}
	return taskListResult(msg, found), nil
}

func handleFilterTasks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	status, err := common.OptionalStringOrArray(args["status"], "status")
	if err != nil {
		return common.ErrorResult(motion.NewValidationError("%s", err.Error())), nil
	}

	params := tasks.FilterParams{
		Priority:    common.StringArg(args, "priority"),
		DateRange:   common.StringArg(args, "dateRange"),
		Status:      status,
		WorkspaceID: common.StringArg(args, "workspaceId"),
		ProjectID:   common.StringArg(args, "projectId"),
		Label:       common.StringArg(args, "label"),
		Name:        common.StringArg(args, "name"),
	}

	found, err := sc.Tasks().Filter(ctx, params)
	if err != nil {
		return common.ErrorResult(err), nil
	}

	suffix := ""
	if desc := params.Describe(); desc != "" {
		suffix = " with filters: " + desc
	}
	msg := "No tasks found" + suffix + "."
	if len(found) > 0 {
		msg = fmt.Sprintf("Found %d %s%s.", len(found), plural(len(found)), suffix)
	}
	return taskListResult(msg, found), nil
}

func handleGetTaskDetails(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	taskID := common.StringArg(request.GetArguments(), "taskId")

	task, err := sc.Tasks().TaskDetails(ctx, taskID)
	if err != nil {
		return common.ErrorResult(err), nil
	}

	return common.JSONResult(TaskDetails{
		Message: fmt.Sprintf("Task details for %q", task.Name),
		Task:    tasks.FormatTaskDetail(*task),
		URL:     tasks.TaskURL(task.ID),
	}), nil
}

func handleCreateTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	labels, err := common.OptionalStringOrArray(args["labels"], "labels")
	if err != nil {
		return common.ErrorResult(motion.NewValidationError("%s", err.Error())), nil
	}

	in := tasks.Input{
		Name:        common.StringArg(args, "name"),
		WorkspaceID: common.StringArg(args, "workspaceId"),
		ProjectID:   common.StringArg(args, "projectId"),
		DueDate:     common.StringArg(args, "dueDate"),
		Duration:    durationArg(args["duration"]),
		Priority:    common.StringArg(args, "priority"),
		Description: common.StringArg(args, "description"),
		Labels:      labels,
		AssigneeID:  common.StringArg(args, "assigneeId"),
		Status:      common.StringArg(args, "status"),
	}

	created, err := sc.Tasks().Create(ctx, in, tasks.ModeTool)
	if err != nil {
		return common.ErrorResult(err), nil
	}

	req := created.Request
	priority := req.Priority
	if priority == "" {
		priority = motion.PriorityMedium
	}
	var dueDate *string
	if req.DueDate != "" {
		dueDate = &req.DueDate
	}

	return common.JSONResult(CreateResult{
		Message: fmt.Sprintf("Task %q created successfully with autoscheduling enabled.", req.Name),
		Task: CreatedTask{
			ID:            created.ID,
			Name:          req.Name,
			WorkspaceID:   req.WorkspaceID,
			DueDate:       dueDate,
			Priority:      priority,
			Duration:      req.Duration,
			AutoScheduled: true,
		},
		URL: created.URL,
	}), nil
}

// durationArg accepts the duration as text or, from clients that send
// numbers, as a JSON number of minutes.
func durationArg(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case float64:
		return fmt.Sprintf("%d", int(d))
	default:
		return ""
	}
}

func taskListResult(msg string, found []motion.Task) *mcp.CallToolResult {
	return common.JSONResult(TaskList{
		Message: msg,
		Tasks:   tasks.FormatTasks(found),
		Count:   len(found),
	})
}

func plural(n int) string {
	if n == 1 {
		return "task"
	}
	return "tasks"
}
