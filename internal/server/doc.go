// Package server provides the MCP server context, health checks and the
// Prometheus metrics endpoint for motionmcp.
//
// # Key Components
//
// ServerContext carries the Motion client, the task service, the credential
// store and the response cache to every tool handler, along with the
// optional metrics recorder and audit logger. Shutdown closes the cache.
//
// HealthChecker serves Kubernetes-style probes:
//   - /healthz: the process is alive
//   - /readyz: ready flag set, not shutting down, an API key is configured
//     and the cache backend answers
//   - /healthz/detailed: the same checks plus uptime
//
// MetricsServer exposes /metrics on a dedicated port, separate from the
// streamable HTTP transport.
package server
