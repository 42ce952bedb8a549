// Package cache implements the TTL cache that sits in front of the Motion API.
//
// Entries are addressed by a (category, key) pair and stored under the
// composite key "motion:<category>:<key>" as a JSON document
// {"data": <payload>, "timestamp": <unix millis>}. Freshness is checked on
// read: an entry whose age is greater than or equal to the category TTL is
// deleted and reported as absent. There is no background sweep.
//
// Storage is pluggable through the Backend interface. The package ships
// in-memory, JSON-file, SQLite and Valkey backends; all of them are safe for
// concurrent use because MCP tool handlers run on separate goroutines.
package cache
