// Package motion_tools provides the MCP tools for Motion tasks.
//
// # Available Tools
//
// Listing:
//   - list_tasks_today: tasks due or scheduled today
//   - list_tasks_tomorrow: tasks due or scheduled tomorrow (cached for an hour)
//   - list_tasks_next_week: tasks due or scheduled next Monday to Sunday (cached for an hour)
//   - search_tasks: tasks whose name matches a query
//   - filter_tasks: tasks matching priority, date range, status, workspace, project, label or name
//   - get_task_details: every field of one task
//
// Directory:
//   - get_workspaces: workspaces visible to the API key
//   - get_projects: projects of a workspace
//
// Writing:
//   - create_task: create an auto-scheduled task (hidden with --read-only)
//
// # Results
//
// Every tool returns indented JSON. Failures are MCP error results whose text
// is {"error": "<message>"}; no Go error ever escapes a handler. Each tool
// first checks that an API key is configured.
package motion_tools
