// Package credential stores the Motion API key.
//
// There is exactly one key per process. Changing or clearing it notifies an
// Invalidator (the response cache), because every cached response was
// fetched with the previous key.
package credential
