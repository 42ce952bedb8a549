// Package cmd implements the command-line interface for motionmcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide Motion tools for AI assistants
//   - tasks: List, search, filter, show and create tasks
//   - search: Interactive search-as-you-type view
//   - auth: Set, clear, inspect and test the Motion API key
//   - workspaces, projects: Browse workspaces and their projects
//   - calendar: Print the Motion calendar link
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
package cmd
