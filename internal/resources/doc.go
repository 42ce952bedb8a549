// Package resources provides MCP resources for Motion account data.
// Resources are read-only data sources that MCP clients can fetch without
// calling a tool, such as the list of workspaces used to fill in the
// workspaceId argument of other tools.
package resources
