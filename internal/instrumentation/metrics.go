package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrCategory  = "category"
	attrEvent     = "event"
	attrTool      = "tool"
	attrWorkspace = "workspace"
)

var (
	httpBuckets = []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10}
	callBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
	pageBuckets = []float64{1, 2, 5, 10, 25, 50, 100}
)

// Metrics records the server's metric families. The zero value and a nil
// *Metrics drop every measurement.
type Metrics struct {
	httpRequests *timedCounter
	apiCalls     *timedCounter
	toolCalls    *timedCounter

	paginationPages metric.Int64Histogram
	cacheEvents     metric.Int64Counter

	// detailedLabels adds workspace IDs to tool metrics.
	detailedLabels bool
}

// timedCounter pairs a call counter with its duration histogram; both get
// the same attributes.
type timedCounter struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

func (tc *timedCounter) record(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	if tc == nil {
		return
	}
	opt := metric.WithAttributes(attrs...)
	tc.total.Add(ctx, 1, opt)
	tc.duration.Record(ctx, d.Seconds(), opt)
}

// instruments creates instruments on one meter and collects the errors.
type instruments struct {
	meter metric.Meter
	errs  []error
}

func (in *instruments) timed(totalName, durationName, desc, unit string, buckets []float64) *timedCounter {
	total, err := in.meter.Int64Counter(totalName,
		metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("%s: %w", totalName, err))
	}
	duration, err := in.meter.Float64Histogram(durationName,
		metric.WithDescription(desc+", duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(buckets...))
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("%s: %w", durationName, err))
	}
	return &timedCounter{total: total, duration: duration}
}

// NewMetrics creates every instrument on meter.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	in := &instruments{meter: meter}
	m := &Metrics{
		detailedLabels: detailedLabels,
		httpRequests:   in.timed("http_requests_total", "http_request_duration_seconds", "HTTP requests served", "{request}", httpBuckets),
		apiCalls:       in.timed("motion_api_operations_total", "motion_api_operation_duration_seconds", "Motion API operations", "{operation}", callBuckets),
		toolCalls:      in.timed("mcp_tool_invocations_total", "mcp_tool_duration_seconds", "MCP tool invocations", "{invocation}", callBuckets),
	}

	var err error
	m.paginationPages, err = meter.Int64Histogram("motion_pagination_pages_total",
		metric.WithDescription("Pages fetched per full task listing"),
		metric.WithUnit("{page}"),
		metric.WithExplicitBucketBoundaries(pageBuckets...))
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("motion_pagination_pages_total: %w", err))
	}

	m.cacheEvents, err = meter.Int64Counter("motion_cache_events_total",
		metric.WithDescription("Response cache events"),
		metric.WithUnit("{event}"))
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("motion_cache_events_total: %w", err))
	}

	if len(in.errs) > 0 {
		return nil, fmt.Errorf("failed to create metrics: %w", errors.Join(in.errs...))
	}
	return m, nil
}

// RecordHTTPRequest records one request served by the HTTP transport.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.record(ctx, duration,
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)))
}

// RecordAPIOperation records one Motion API operation. operation is one
// of the Operation* constants. Paginated listings count as one operation.
func (m *Metrics) RecordAPIOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.apiCalls.record(ctx, duration,
		attribute.String(attrService, ServiceMotion),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status))
}

// RecordPaginationPages records how many pages one full task listing walked.
func (m *Metrics) RecordPaginationPages(ctx context.Context, pages int) {
	if m == nil || m.paginationPages == nil {
		return
	}
	m.paginationPages.Record(ctx, int64(pages))
}

// RecordCacheEvent counts a cache hit, miss, expiry, write or
// invalidation for a category.
func (m *Metrics) RecordCacheEvent(ctx context.Context, category, event string) {
	if m == nil || m.cacheEvents == nil {
		return
	}
	m.cacheEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrCategory, category),
		attribute.String(attrEvent, event),
	))
}

// RecordToolInvocationWithWorkspace records one MCP tool call. The
// workspace label is only added with detailed labels on.
func (m *Metrics) RecordToolInvocationWithWorkspace(ctx context.Context, toolName, status, workspaceID string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && workspaceID != "" {
		attrs = append(attrs, attribute.String(attrWorkspace, workspaceID))
	}
	m.toolCalls.record(ctx, duration, attrs...)
}
