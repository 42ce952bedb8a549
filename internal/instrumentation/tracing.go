package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of every span started here.
const TracerName = "github.com/teemow/motionmcp"

// Span attribute keys.
const (
	SpanAttrTool      = "mcp.tool"
	SpanAttrService   = "motion.service"
	SpanAttrOperation = "motion.operation"
	SpanAttrWorkspace = "motion.workspace_id"
	SpanAttrTask      = "motion.task_id"
)

// SpanTarget describes what a tool call acts on. Empty fields are left
// off the span.
type SpanTarget struct {
	Operation   string
	WorkspaceID string
	TaskID      string
}

// Attributes converts the target into span attributes. The service
// attribute is only set together with an operation.
func (t SpanTarget) Attributes() []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if t.Operation != "" {
		attrs = append(attrs,
			attribute.String(SpanAttrService, ServiceMotion),
			attribute.String(SpanAttrOperation, t.Operation))
	}
	if t.WorkspaceID != "" {
		attrs = append(attrs, attribute.String(SpanAttrWorkspace, t.WorkspaceID))
	}
	if t.TaskID != "" {
		attrs = append(attrs, attribute.String(SpanAttrTask, t.TaskID))
	}
	return attrs
}

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

// StartToolSpan starts the server span "tool.<name>" around one MCP tool
// call. Callers end it.
func StartToolSpan(ctx context.Context, toolName string, target SpanTarget) (context.Context, trace.Span) {
	attrs := append([]attribute.KeyValue{attribute.String(SpanAttrTool, toolName)}, target.Attributes()...)
	return tracer().Start(ctx, "tool."+toolName,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartAPISpan starts the client span "<service>.<operation>" around one
// remote API operation. Callers end it.
func StartAPISpan(ctx context.Context, service, operation string) (context.Context, trace.Span) {
	return tracer().Start(ctx, service+"."+operation,
		trace.WithAttributes(
			attribute.String(SpanAttrService, service),
			attribute.String(SpanAttrOperation, operation),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records err on the span. A nil err is ignored.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess marks the span OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// spanIDs returns the trace and span IDs in ctx, or empty strings.
func spanIDs(ctx context.Context) (traceID, spanID string) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}
