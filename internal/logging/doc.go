// Package logging holds the slog conventions of motionmcp: the Logger
// interface accepted by the library packages, shared attribute keys and
// helpers that keep secrets out of log lines.
//
//	logger.Debug("cache miss", logging.Category("tasks"), logging.CacheKey("all"))
//	logger.Debug("credential loaded", logging.APIKey(key))
package logging
