package motion_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/motionmcp/internal/instrumentation"
	"github.com/teemow/motionmcp/internal/motion"
	"github.com/teemow/motionmcp/internal/server"
	"github.com/teemow/motionmcp/internal/tools/common"
)

// RegisterMotionTools registers all Motion tools with the MCP server.
// create_task is the only tool that writes and is hidden in read-only mode.
func RegisterMotionTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerListTools(s, sc)
	registerQueryTools(s, sc)
	registerDirectoryTools(s, sc)

	if !readOnly {
		registerCreateTool(s, sc)
	}
	return nil
}

// register wraps handler with instrumentation and the credential check every
// tool performs before doing any work.
func register(s *mcpserver.MCPServer, sc *server.ServerContext, tool mcp.Tool, operation string, handler common.ToolHandler) {
	guarded := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !sc.HasCredential(ctx) {
			return common.ErrorMessage(motion.MissingCredentialMessage), nil
		}
		return handler(ctx, request)
	}
	s.AddTool(tool, mcpserver.ToolHandlerFunc(common.InstrumentedToolHandlerWithService(tool.Name, operation, sc, guarded)))
}

func registerListTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	workspaceOpt := mcp.WithString("workspaceId",
		mcp.Description("Optional workspace ID to restrict the listing to"),
	)

	todayTool := mcp.NewTool("list_tasks_today",
		mcp.WithDescription("List all Motion tasks due or scheduled today. Returns task names, priorities, scheduled times and due dates."),
		workspaceOpt,
	)
	register(s, sc, todayTool, instrumentation.OperationListTasks, listPeriodHandler(sc, todayView))

	tomorrowTool := mcp.NewTool("list_tasks_tomorrow",
		mcp.WithDescription("List all Motion tasks scheduled or due tomorrow, including scheduled start and end times."),
		workspaceOpt,
	)
	register(s, sc, tomorrowTool, instrumentation.OperationListTasks, listPeriodHandler(sc, tomorrowView))

	nextWeekTool := mcp.NewTool("list_tasks_next_week",
		mcp.WithDescription("List all Motion tasks scheduled or due next week (Monday to Sunday)."),
		workspaceOpt,
	)
	register(s, sc, nextWeekTool, instrumentation.OperationListTasks, listPeriodHandler(sc, nextWeekView))
}

func registerQueryTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	searchTool := mcp.NewTool("search_tasks",
		mcp.WithDescription("Search Motion tasks by name. Returns every task whose name matches the query."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to search for in task names"),
		),
	)
	register(s, sc, searchTool, instrumentation.OperationListTasks, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSearchTasks(ctx, request, sc)
	})

	filterTool := mcp.NewTool("filter_tasks",
		mcp.WithDescription("Filter Motion tasks by priority, date range, status, workspace, project, label or name. All filters are optional and combine with AND."),
		mcp.WithString("priority",
			mcp.Description("Only return tasks with this priority"),
			mcp.Enum("ASAP", "HIGH", "MEDIUM", "LOW"),
		),
		mcp.WithString("dateRange",
			mcp.Description("Only return tasks scheduled or due in this range"),
			mcp.Enum("today", "tomorrow", "thisWeek", "nextWeek", "thisMonth", "nextMonth"),
		),
		mcp.WithString("status",
			mcp.Description("Status name, or a JSON array of status names matched with OR (e.g. \"Todo\" or [\"Todo\", \"In Progress\"])"),
		),
		mcp.WithString("workspaceId",
			mcp.Description("Only return tasks from this workspace"),
		),
		mcp.WithString("projectId",
			mcp.Description("Only return tasks from this project"),
		),
		mcp.WithString("label",
			mcp.Description("Only return tasks carrying this label"),
		),
		mcp.WithString("name",
			mcp.Description("Only return tasks whose name matches"),
		),
	)
	register(s, sc, filterTool, instrumentation.OperationListTasks, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleFilterTasks(ctx, request, sc)
	})

	detailsTool := mcp.NewTool("get_task_details",
		mcp.WithDescription("Get the full details of a Motion task: description, project, assignees, labels, schedule and timestamps."),
		mcp.WithString("taskId",
			mcp.Required(),
			mcp.Description("Motion task ID (format: tk_...)"),
		),
	)
	register(s, sc, detailsTool, instrumentation.OperationGetTask, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetTaskDetails(ctx, request, sc)
	})
}

func registerDirectoryTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	workspacesTool := mcp.NewTool("get_workspaces",
		mcp.WithDescription("List the Motion workspaces available to the configured API key. Use the returned IDs with other tools."),
	)
	register(s, sc, workspacesTool, instrumentation.OperationListWorkspaces, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetWorkspaces(ctx, request, sc)
	})

	projectsTool := mcp.NewTool("get_projects",
		mcp.WithDescription("List the projects of a Motion workspace."),
		mcp.WithString("workspaceId",
			mcp.Required(),
			mcp.Description("Workspace ID (use get_workspaces to find it)"),
		),
	)
	register(s, sc, projectsTool, instrumentation.OperationListProjects, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetProjects(ctx, request, sc)
	})
}

func registerCreateTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	createTool := mcp.NewTool("create_task",
		mcp.WithDescription("Create a Motion task with auto-scheduling enabled. The task is placed on the calendar before its due date."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Task name"),
		),
		mcp.WithString("dueDate",
			mcp.Required(),
			mcp.Description("Due date (YYYY-MM-DD)"),
		),
		mcp.WithString("workspaceId",
			mcp.Description("Workspace ID. Defaults to the first workspace."),
		),
		mcp.WithString("projectId",
			mcp.Description("Project ID within the workspace"),
		),
		mcp.WithString("description",
			mcp.Description("Task description (markdown)"),
		),
		mcp.WithString("priority",
			mcp.Description("Task priority (default: MEDIUM)"),
			mcp.Enum("ASAP", "HIGH", "MEDIUM", "LOW"),
		),
		mcp.WithString("duration",
			mcp.Description("Duration in minutes, or NONE / REMINDER"),
		),
		mcp.WithString("labels",
			mcp.Description("Label name, or a JSON array of label names to attach"),
		),
		mcp.WithString("assigneeId",
			mcp.Description("User ID to assign the task to"),
		),
		mcp.WithString("status",
			mcp.Description("Initial status name"),
		),
	)
	register(s, sc, createTool, instrumentation.OperationCreateTask, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateTask(ctx, request, sc)
	})
}
