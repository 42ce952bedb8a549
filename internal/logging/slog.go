package logging

import (
	"fmt"
	"log/slog"
)

// Attribute keys shared by every package that logs.
const (
	KeyStatus    = "status"
	KeyError     = "error"
	KeyCategory  = "category"
	KeyCacheKey  = "cache_key"
	KeyTaskID    = "task_id"
	KeyWorkspace = "workspace_id"
	KeyPage      = "page"
)

// Status is an HTTP or call status.
func Status(status string) slog.Attr { return slog.String(KeyStatus, status) }

// Category is a response cache category such as "tasks".
func Category(category string) slog.Attr { return slog.String(KeyCategory, category) }

func CacheKey(key string) slog.Attr { return slog.String(KeyCacheKey, key) }

func TaskID(id string) slog.Attr { return slog.String(KeyTaskID, id) }

func Workspace(id string) slog.Attr { return slog.String(KeyWorkspace, id) }

// Err is the error attribute. A nil err yields an empty group, which
// handlers drop, so Err(maybeNil) is always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizeToken describes a secret by its length only.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}

// APIKey is the masked form of a Motion API key.
func APIKey(key string) slog.Attr {
	return slog.String("api_key", SanitizeToken(key))
}
