// Package common provides shared utilities for the MCP tool handlers: the
// instrumentation wrapper, argument parsing and result encoding.
//
// Every tool answers with JSON text. Failures use ErrorResult so clients
// always see {"error": "..."} with IsError set, never a Go error.
package common
