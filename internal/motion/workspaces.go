package motion

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/teemow/motionmcp/internal/cache"
	"github.com/teemow/motionmcp/internal/instrumentation"
)

// workspacesCacheKey is the single key of the workspaces category.
const workspacesCacheKey = "all"

// GetWorkspaces lists the workspaces visible to the API key.
func (c *Client) GetWorkspaces(ctx context.Context, opts ...CallOption) ([]Workspace, error) {
	apiKey, err := c.apiKey(ctx)
	if err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	if !o.skipCache {
		if cached, ok := cache.GetJSON[[]Workspace](ctx, c.cache, cache.CategoryWorkspaces, workspacesCacheKey, 0); ok {
			return cached, nil
		}
	}

	var resp listWorkspacesResponse
	err = c.observe(ctx, instrumentation.OperationListWorkspaces, func(ctx context.Context) error {
		return c.do(ctx, apiKey, http.MethodGet, "/workspaces", "", nil, &resp)
	})
	if err != nil {
		return nil, err
	}
	if resp.Workspaces == nil {
		resp.Workspaces = []Workspace{}
	}

	if !o.skipCache {
		c.remember(ctx, cache.CategoryWorkspaces, workspacesCacheKey, resp.Workspaces)
	}
	return resp.Workspaces, nil
}

// GetProjects lists the projects of a workspace. Failures always propagate;
// callers that treat projects as optional decide to ignore them.
func (c *Client) GetProjects(ctx context.Context, workspaceID string, opts ...CallOption) ([]Project, error) {
	apiKey, err := c.apiKey(ctx)
	if err != nil {
		return nil, err
	}
	workspaceID = strings.TrimSpace(workspaceID)
	if workspaceID == "" {
		return nil, NewValidationError("workspaceId is required. Use get_workspaces first to get available workspace IDs.")
	}

	o := applyOptions(opts)
	if !o.skipCache {
		if cached, ok := cache.GetJSON[[]Project](ctx, c.cache, cache.CategoryProjects, workspaceID, 0); ok {
			return cached, nil
		}
	}

	var resp listProjectsResponse
	err = c.observe(ctx, instrumentation.OperationListProjects, func(ctx context.Context) error {
		return c.do(ctx, apiKey, http.MethodGet, "/projects", "workspaceId="+url.QueryEscape(workspaceID), nil, &resp)
	})
	if err != nil {
		return nil, err
	}
	if resp.Projects == nil {
		resp.Projects = []Project{}
	}

	if !o.skipCache {
		c.remember(ctx, cache.CategoryProjects, workspaceID, resp.Projects)
	}
	return resp.Projects, nil
}
