package common

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/motionmcp/internal/motion"
)

func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	if len(r.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := r.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", r.Content[0])
	}
	return text.Text
}

func TestErrorResult(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "motion error keeps its message",
			err:  &motion.Error{Kind: motion.KindMissingCredential, Message: motion.MissingCredentialMessage},
			want: motion.MissingCredentialMessage,
		},
		{
			name: "validation error",
			err:  motion.NewValidationError("Task name is required. Provide a name for the task."),
			want: "Task name is required. Provide a name for the task.",
		},
		{
			name: "foreign error is prefixed",
			err:  errors.New("disk full"),
			want: "Unexpected error: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ErrorResult(tt.err)
			if !r.IsError {
				t.Error("expected IsError")
			}
			var body ErrorBody
			if err := json.Unmarshal([]byte(resultText(t, r)), &body); err != nil {
				t.Fatalf("error body is not JSON: %v", err)
			}
			if body.Error != tt.want {
				t.Errorf("error = %q, want %q", body.Error, tt.want)
			}
		})
	}
}

func TestJSONResult(t *testing.T) {
	r := JSONResult(map[string]int{"count": 2})
	if r.IsError {
		t.Fatal("unexpected error result")
	}
	if got := resultText(t, r); got != "{\n  \"count\": 2\n}" {
		t.Errorf("JSONResult() = %q", got)
	}

	bad := JSONResult(func() {})
	if !bad.IsError {
		t.Error("expected error result for unencodable value")
	}
}
