package motion_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/motionmcp/internal/motion"
	"github.com/teemow/motionmcp/internal/server"
	"github.com/teemow/motionmcp/internal/tools/common"
)

// WorkspaceSummary is one entry of get_workspaces.
type WorkspaceSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// WorkspaceList is the payload of get_workspaces.
type WorkspaceList struct {
	Message    string             `json:"message"`
	Workspaces []WorkspaceSummary `json:"workspaces"`
	Count      int                `json:"count"`
}

// ProjectSummary is one entry of get_projects.
type ProjectSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	WorkspaceID string  `json:"workspaceId"`
}

// ProjectList is the payload of get_projects.
type ProjectList struct {
	Message     string           `json:"message"`
	Projects    []ProjectSummary `json:"projects"`
	Count       int              `json:"count"`
	WorkspaceID string           `json:"workspaceId"`
}

const missingWorkspaceMessage = "workspaceId is required. Use get_workspaces tool first to get available workspace IDs."

// SummarizeWorkspaces keeps the id, name and type of each workspace.
func SummarizeWorkspaces(workspaces []motion.Workspace) []WorkspaceSummary {
	out := make([]WorkspaceSummary, 0, len(workspaces))
	for _, w := range workspaces {
		out = append(out, WorkspaceSummary{ID: w.ID, Name: w.Name, Type: w.Type})
	}
	return out
}

func handleGetWorkspaces(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	workspaces, err := sc.Tasks().Workspaces(ctx)
	if err != nil {
		return common.ErrorResult(err), nil
	}

	msg := "No workspaces found."
	if n := len(workspaces); n > 0 {
		noun := "workspaces"
		if n == 1 {
			noun = "workspace"
		}
		msg = fmt.Sprintf("Found %d %s.", n, noun)
	}

	return common.JSONResult(WorkspaceList{
		Message:    msg,
		Workspaces: SummarizeWorkspaces(workspaces),
		Count:      len(workspaces),
	}), nil
}

func handleGetProjects(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	workspaceID := common.StringArg(request.GetArguments(), "workspaceId")
	if workspaceID == "" {
		return common.ErrorMessage(missingWorkspaceMessage), nil
	}

	projects, err := sc.Tasks().Projects(ctx, workspaceID)
	if err != nil {
		return common.ErrorResult(err), nil
	}

	summaries := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		s := ProjectSummary{ID: p.ID, Name: p.Name, WorkspaceID: p.WorkspaceID}
		if p.Description != "" {
			desc := p.Description
			s.Description = &desc
		}
		summaries = append(summaries, s)
	}

	msg := fmt.Sprintf("No projects found in workspace %s.", workspaceID)
	if n := len(projects); n > 0 {
		noun := "projects"
		if n == 1 {
			noun = "project"
		}
		msg = fmt.Sprintf("Found %d %s in workspace %s.", n, noun, workspaceID)
	}

	return common.JSONResult(ProjectList{
		Message:     msg,
		Projects:    summaries,
		Count:       len(projects),
		WorkspaceID: workspaceID,
	}), nil
}
