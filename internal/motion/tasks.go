package motion

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/teemow/motionmcp/internal/cache"
	"github.com/teemow/motionmcp/internal/instrumentation"
	"github.com/teemow/motionmcp/internal/logging"
)

// ListTasks fetches one page of tasks. First pages (empty cursor) are served
// from and stored in the tasks cache; pages reached through a cursor never
// touch the cache.
func (c *Client) ListTasks(ctx context.Context, params ListTasksParams, cursor string, opts ...CallOption) (*ListTasksResponse, error) {
	apiKey, err := c.apiKey(ctx)
	if err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	useCache := cursor == "" && !o.skipCache
	key := params.CacheKey()

	if useCache {
		if cached, ok := cache.GetJSON[ListTasksResponse](ctx, c.cache, cache.CategoryTasks, key, 0); ok {
			return &cached, nil
		}
	}

	var resp ListTasksResponse
	err = c.observe(ctx, instrumentation.OperationListTasks, func(ctx context.Context) error {
		return c.do(ctx, apiKey, http.MethodGet, "/tasks", params.Encode(cursor), nil, &resp)
	})
	if err != nil {
		return nil, err
	}
	if resp.Tasks == nil {
		resp.Tasks = []Task{}
	}

	if useCache {
		c.remember(ctx, cache.CategoryTasks, key, resp)
	}
	return &resp, nil
}

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, id string, opts ...CallOption) (*Task, error) {
	apiKey, err := c.apiKey(ctx)
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, NewValidationError("Task ID is required. Provide a Motion task ID (format: tk_...).")
	}

	o := applyOptions(opts)
	if !o.skipCache {
		if cached, ok := cache.GetJSON[Task](ctx, c.cache, cache.CategoryTask, id, 0); ok {
			return &cached, nil
		}
	}

	var task Task
	err = c.observe(ctx, instrumentation.OperationGetTask, func(ctx context.Context) error {
		return c.do(ctx, apiKey, http.MethodGet, "/tasks/"+url.PathEscape(id), "", nil, &task)
	})
	if err != nil {
		return nil, err
	}

	if !o.skipCache {
		c.remember(ctx, cache.CategoryTask, id, task)
	}
	return &task, nil
}

// CreateTask creates a task. Motion answers with the created entity, so the
// result status is derived from whether it carries an id. On success every
// task listing is evicted, plus the workspace's projects when the task was
// filed under a project.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*CreateTaskResult, error) {
	apiKey, err := c.apiKey(ctx)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var created Task
	err = c.observe(ctx, instrumentation.OperationCreateTask, func(ctx context.Context) error {
		return c.do(ctx, apiKey, http.MethodPost, "/tasks", "", req, &created)
	})
	if err != nil {
		return nil, err
	}

	if created.ID == "" {
		return &CreateTaskResult{Status: CreateFailure}, nil
	}

	c.invalidateAfterCreate(ctx, req)

	id := created.ID
	return &CreateTaskResult{Status: CreateSuccess, ID: &id, Task: &created}, nil
}

// derivedTaskCategories hold views computed from task listings.
var derivedTaskCategories = []cache.Category{
	cache.CategoryTasks,
	cache.CategoryTomorrowTasks,
	cache.CategoryNextWeekTasks,
}

func (c *Client) invalidateAfterCreate(ctx context.Context, req CreateTaskRequest) {
	if c.cache == nil {
		return
	}
	for _, category := range derivedTaskCategories {
		if err := c.cache.ClearCategory(ctx, category); err != nil {
			c.logger.Warn("failed to invalidate cache after create", logging.Category(string(category)), logging.Err(err))
		}
	}
	if req.ProjectID != "" {
		if err := c.cache.Remove(ctx, cache.CategoryProjects, req.WorkspaceID); err != nil {
			c.logger.Warn("failed to invalidate projects after create", logging.Workspace(req.WorkspaceID), logging.Err(err))
		}
	}
}
