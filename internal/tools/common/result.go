package common

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/motionmcp/internal/motion"
)

// ErrorBody is the payload of every failed tool call.
type ErrorBody struct {
	Error string `json:"error"`
}

// ErrorResult converts err into an MCP error result carrying
// {"error": "<message>"}.
func ErrorResult(err error) *mcp.CallToolResult {
	return ErrorMessage(Message(err))
}

// ErrorMessage is ErrorResult for a literal message.
func ErrorMessage(msg string) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(ErrorBody{Error: msg}, "", "  ")
	return mcp.NewToolResultError(string(data))
}

// JSONResult renders v as indented JSON text.
func JSONResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ErrorMessage("failed to encode result: " + err.Error())
	}
	return mcp.NewToolResultText(string(data))
}

// Message returns the user-facing text for err. Motion errors already carry
// a complete message; anything else is prefixed so the caller can tell it
// apart from an API answer.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *motion.Error
	if errors.As(err, &apiErr) {
		return err.Error()
	}
	return "Unexpected error: " + err.Error()
}
