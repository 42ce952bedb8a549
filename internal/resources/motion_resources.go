package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/motionmcp/internal/motion"
	"github.com/teemow/motionmcp/internal/server"
)

// WorkspacesURI is the URI of the workspace list resource.
const WorkspacesURI = "motion://workspaces"

type workspaceEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// RegisterMotionResources registers the Motion resources.
func RegisterMotionResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	workspacesResource := mcp.NewResource(
		WorkspacesURI,
		"Motion Workspaces",
		mcp.WithResourceDescription("Workspaces visible to the configured Motion API key"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(workspacesResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleWorkspaces(ctx, request, sc)
	})

	return nil
}

// handleWorkspaces returns the id, name and type of every workspace
func handleWorkspaces(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	if !sc.HasCredential(ctx) {
		return nil, errors.New(motion.MissingCredentialMessage)
	}

	workspaces, err := sc.Tasks().Workspaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	entries := make([]workspaceEntry, 0, len(workspaces))
	for _, w := range workspaces {
		entries = append(entries, workspaceEntry{ID: w.ID, Name: w.Name, Type: w.Type})
	}

	jsonData, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal workspaces: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
