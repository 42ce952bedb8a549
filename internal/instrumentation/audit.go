package instrumentation

import (
	"context"
	"log/slog"
	"time"
)

// ToolInvocation is one MCP tool call as written to the audit log.
//
// Query holds text the user typed (a search term or a new task name).
// Unless the audit logger was configured with IncludePII only its
// QueryShape is logged.
type ToolInvocation struct {
	Tool   string
	Target SpanTarget
	Query  string

	Start    time.Time
	Duration time.Duration
	Failed   bool
	Error    string

	TraceID string
	SpanID  string
}

// StartToolInvocation begins timing a tool call and captures the span
// active in ctx.
func StartToolInvocation(ctx context.Context, tool string, target SpanTarget, query string) *ToolInvocation {
	ti := &ToolInvocation{
		Tool:   tool,
		Target: target,
		Query:  query,
		Start:  time.Now(),
	}
	ti.TraceID, ti.SpanID = spanIDs(ctx)
	return ti
}

// Finish stops the clock. A call fails when err is set or the tool
// answered with an error result.
func (ti *ToolInvocation) Finish(err error, errorResult bool) *ToolInvocation {
	ti.Duration = time.Since(ti.Start)
	ti.Failed = err != nil || errorResult
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// Status is the metric label for the outcome.
func (ti *ToolInvocation) Status() string {
	if ti.Failed {
		return StatusError
	}
	return StatusSuccess
}

func (ti *ToolInvocation) attrs(includeText bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", !ti.Failed),
	}

	switch {
	case ti.Query == "":
	case includeText:
		attrs = append(attrs, slog.String("query", ti.Query))
	default:
		attrs = append(attrs, slog.String("query_shape", QueryShape(ti.Query)))
	}

	optional := []struct{ key, value string }{
		{"workspace_id", ti.Target.WorkspaceID},
		{"task_id", ti.Target.TaskID},
		{"operation", ti.Target.Operation},
		{"trace_id", ti.TraceID},
		{"span_id", ti.SpanID},
		{"error", ti.Error},
	}
	for _, o := range optional {
		if o.value != "" {
			attrs = append(attrs, slog.String(o.key, o.value))
		}
	}
	return attrs
}

// AuditLogger writes one line per tool call. A nil *AuditLogger is valid
// and logs nothing.
type AuditLogger struct {
	logger     *slog.Logger
	enabled    bool
	includePII bool
}

// NewAuditLogger returns an audit logger. A nil logger means
// slog.Default().
func NewAuditLogger(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger.With(slog.String("component", "audit")),
		enabled:    config.Enabled,
		includePII: config.IncludePII,
	}
}

// Log writes ti at INFO, or WARN when the call failed.
func (al *AuditLogger) Log(ctx context.Context, ti *ToolInvocation) {
	if al == nil || !al.enabled {
		return
	}

	if ti.Failed {
		al.logger.LogAttrs(ctx, slog.LevelWarn, "tool_failed", ti.attrs(al.includePII)...)
		return
	}
	al.logger.LogAttrs(ctx, slog.LevelInfo, "tool_executed", ti.attrs(al.includePII)...)
}
