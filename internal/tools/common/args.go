package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StringArg returns the trimmed string argument name, or "" when it is
// absent or not a string.
func StringArg(args map[string]any, name string) string {
	v, ok := args[name].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// ParseStringOrArray accepts a single string, a JSON-encoded string array
// or an array of strings and returns the trimmed values. Missing, empty or
// blank entries are errors.
func ParseStringOrArray(param any, paramName string) ([]string, error) {
	var items []any
	switch v := param.(type) {
	case nil:
		return nil, fmt.Errorf("%s is required", paramName)
	case string:
		var decoded []string
		if s := strings.TrimSpace(v); strings.HasPrefix(s, "[") && json.Unmarshal([]byte(s), &decoded) == nil {
			items = toAnySlice(decoded)
		} else if s != "" {
			return []string{s}, nil
		}
	case []string:
		items = toAnySlice(v)
	case []any:
		items = v
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%s cannot be empty", paramName)
	}
	values := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
		}
		if s = strings.TrimSpace(s); s == "" {
			return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
		}
		values = append(values, s)
	}
	return values, nil
}

// OptionalStringOrArray is ParseStringOrArray for optional parameters: an
// absent, empty or blank value yields nil without error.
func OptionalStringOrArray(param any, paramName string) ([]string, error) {
	empty := false
	switch v := param.(type) {
	case nil:
		empty = true
	case string:
		empty = strings.TrimSpace(v) == ""
	case []any:
		empty = len(v) == 0
	case []string:
		empty = len(v) == 0
	}
	if empty {
		return nil, nil
	}
	return ParseStringOrArray(param, paramName)
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
