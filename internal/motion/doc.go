// Package motion is a client for the Motion task API.
//
// Every call reads the API key from a credential.Store and fails with
// KindMissingCredential, without touching the network, when none is set.
// Non-2xx responses become *Error values that keep the status and the raw
// response body.
//
// Reads go through the TTL cache:
//
//	category    key                 ttl
//	tasks       canonical query     2m   (first page only)
//	task        task id             5m
//	workspaces  "all"               5m
//	projects    workspace id        5m
//
// Creating a task evicts every task listing and, when the task belongs to a
// project, that workspace's project list.
package motion
