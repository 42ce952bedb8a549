package common

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/motionmcp/internal/instrumentation"
	"github.com/teemow/motionmcp/internal/server"
)

// ToolHandler is the signature of an MCP tool handler.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with a span, metrics and
// audit logging.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return InstrumentedToolHandlerWithService(toolName, "", sc, handler)
}

// InstrumentedToolHandlerWithService is like InstrumentedToolHandler but
// also tags the invocation with the Motion API operation the tool performs
// (one of the instrumentation.Operation* constants).
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithService("get_projects", instrumentation.OperationListProjects, sc, handler))
func InstrumentedToolHandlerWithService(toolName, operation string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		target := instrumentation.SpanTarget{
			Operation:   operation,
			WorkspaceID: StringArg(args, "workspaceId"),
			TaskID:      StringArg(args, "taskId"),
		}

		ctx, span := instrumentation.StartToolSpan(ctx, toolName, target)
		defer span.End()

		invocation := instrumentation.StartToolInvocation(ctx, toolName, target, toolQuery(args))

		result, err := handler(ctx, request)
		errorResult := result != nil && result.IsError
		invocation.Finish(err, errorResult)

		switch {
		case err != nil:
			instrumentation.SetSpanError(span, err)
		case errorResult:
			span.AddEvent("tool_error_result")
		default:
			instrumentation.SetSpanSuccess(span)
		}

		sc.Metrics().RecordToolInvocationWithWorkspace(ctx, toolName, invocation.Status(), target.WorkspaceID, invocation.Duration)
		sc.AuditLogger().Log(ctx, invocation)

		return result, err
	}
}

// toolQuery is the free text of a call: the search query or the name of
// a task being created.
func toolQuery(args map[string]any) string {
	if q := StringArg(args, "query"); q != "" {
		return q
	}
	return StringArg(args, "name")
}
