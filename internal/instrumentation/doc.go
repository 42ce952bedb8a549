// Package instrumentation wires OpenTelemetry metrics, tracing and the
// tool audit log for motionmcp.
//
// Metrics are exported to Prometheus (served by the metrics server on its
// own port), to an OTLP collector, or to stderr. Each Provider owns its
// Prometheus registry, which also carries the Go runtime and process
// collectors.
//
// Metric families:
//   - http_requests_total, http_request_duration_seconds
//   - motion_api_operations_total, motion_api_operation_duration_seconds
//   - motion_pagination_pages_total
//   - motion_cache_events_total (hit, miss, expired, set, invalidate)
//   - mcp_tool_invocations_total, mcp_tool_duration_seconds
//
// Spans: tool.<name> (server) wraps every MCP tool call, and
// motion.<operation> (client) wraps every Motion API operation.
//
// Environment:
//   - INSTRUMENTATION_ENABLED (default true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout
//   - TRACING_EXPORTER: otlp, stdout or none
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default 0.1)
//   - OTEL_SERVICE_NAME, OTEL_RESOURCE_ATTRIBUTES
//   - METRICS_DETAILED_LABELS: add workspace IDs to tool metrics
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_PII
//
// Typical use:
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordAPIOperation(ctx, instrumentation.OperationListTasks, instrumentation.StatusSuccess, time.Since(start))
package instrumentation
