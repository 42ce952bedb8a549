package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teemow/motionmcp/internal/cache"
	"github.com/teemow/motionmcp/internal/daterange"
	"github.com/teemow/motionmcp/internal/logging"
	"github.com/teemow/motionmcp/internal/motion"
)

// API is the part of the Motion client the service uses.
type API interface {
	Directory
	ListAllTasks(ctx context.Context, params motion.ListTasksParams, opts ...motion.CallOption) ([]motion.Task, error)
	GetTask(ctx context.Context, id string, opts ...motion.CallOption) (*motion.Task, error)
	CreateTask(ctx context.Context, req motion.CreateTaskRequest) (*motion.CreateTaskResult, error)
	HasCredential(ctx context.Context) bool
}

// ServiceOptions configures a Service.
type ServiceOptions struct {
	API API
	// Cache holds the tomorrow and next-week views. Optional.
	Cache *cache.Cache
	// Location is used for date ranges. Defaults to time.Local.
	Location *time.Location
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger logging.Logger
}

// Service answers task queries and creates tasks.
type Service struct {
	api       API
	cache     *cache.Cache
	loc       *time.Location
	now       func() time.Time
	logger    logging.Logger
	assembler *Assembler
}

// NewService returns a Service for opts.
func NewService(opts ServiceOptions) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Service{
		api:       opts.API,
		cache:     opts.Cache,
		loc:       opts.Location,
		now:       opts.Now,
		logger:    opts.Logger,
		assembler: NewAssembler(opts.API, opts.Now),
	}
}

// HasCredential reports whether an API key is configured.
func (s *Service) HasCredential(ctx context.Context) bool {
	return s.api.HasCredential(ctx)
}

// Range returns the calendar range p denotes right now.
func (s *Service) Range(p daterange.Period) (daterange.Range, error) {
	return daterange.RangeFor(p, s.now().In(s.loc))
}

// Today lists tasks happening today.
func (s *Service) Today(ctx context.Context, workspaceID string, opts ...motion.CallOption) ([]motion.Task, error) {
	return s.period(ctx, daterange.Today, workspaceID, opts...)
}

// ThisWeek lists tasks happening from Monday to Sunday of the current week.
func (s *Service) ThisWeek(ctx context.Context, workspaceID string, opts ...motion.CallOption) ([]motion.Task, error) {
	return s.period(ctx, daterange.ThisWeek, workspaceID, opts...)
}

// Tomorrow lists tasks happening tomorrow. The result is cached under the
// date for an hour.
func (s *Service) Tomorrow(ctx context.Context, workspaceID string, opts ...motion.CallOption) ([]motion.Task, error) {
	r, err := s.Range(daterange.Tomorrow)
	if err != nil {
		return nil, err
	}
	return s.cachedView(ctx, cache.CategoryTomorrowTasks, viewKey(r.Start.String(), workspaceID), r, workspaceID, opts)
}

// NextWeek lists tasks happening next Monday to Sunday. The result is
// cached under "<start>_<end>" for an hour.
func (s *Service) NextWeek(ctx context.Context, workspaceID string, opts ...motion.CallOption) ([]motion.Task, error) {
	r, err := s.Range(daterange.NextWeek)
	if err != nil {
		return nil, err
	}
	return s.cachedView(ctx, cache.CategoryNextWeekTasks, viewKey(r.Key(), workspaceID), r, workspaceID, opts)
}

func viewKey(base, workspaceID string) string {
	if workspaceID == "" {
		return base
	}
	return base + "@" + workspaceID
}

func (s *Service) period(ctx context.Context, p daterange.Period, workspaceID string, opts ...motion.CallOption) ([]motion.Task, error) {
	r, err := s.Range(p)
	if err != nil {
		return nil, err
	}
	all, err := s.api.ListAllTasks(ctx, motion.ListTasksParams{WorkspaceID: workspaceID}, opts...)
	if err != nil {
		return nil, err
	}
	return daterange.Filter(all, r, s.loc), nil
}

func (s *Service) cachedView(ctx context.Context, category cache.Category, key string, r daterange.Range, workspaceID string, opts []motion.CallOption) ([]motion.Task, error) {
	skip := motion.CacheSkipped(opts)
	if !skip {
		if cached, ok := cache.GetJSON[[]motion.Task](ctx, s.cache, category, key, 0); ok {
			return cached, nil
		}
	}

	all, err := s.api.ListAllTasks(ctx, motion.ListTasksParams{WorkspaceID: workspaceID}, opts...)
	if err != nil {
		return nil, err
	}
	matched := daterange.Filter(all, r, s.loc)

	if err := cache.SetJSON(ctx, s.cache, category, key, matched); err != nil {
		s.logger.Warn("failed to cache task view", logging.Category(string(category)), logging.CacheKey(key), logging.Err(err))
	}
	return matched, nil
}

// Search lists tasks whose name matches query, server side.
func (s *Service) Search(ctx context.Context, query string, opts ...motion.CallOption) ([]motion.Task, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, motion.NewValidationError("Search query is required. Provide a task name to search for.")
	}
	return s.api.ListAllTasks(ctx, motion.ListTasksParams{Name: query}, opts...)
}

// Filter lists tasks matching p. Name, workspace, project, label and status
// filter server side; the date range and priority filter locally.
func (s *Service) Filter(ctx context.Context, p FilterParams, opts ...motion.CallOption) ([]motion.Task, error) {
	var (
		r        daterange.Range
		hasRange bool
		priority motion.Priority
	)
	if strings.TrimSpace(p.DateRange) != "" {
		period, err := daterange.ParsePeriod(p.DateRange)
		if err != nil {
			return nil, motion.NewValidationError("%s", err.Error())
		}
		if r, err = s.Range(period); err != nil {
			return nil, err
		}
		hasRange = true
	}
	if strings.TrimSpace(p.Priority) != "" {
		var err error
		if priority, err = motion.ParsePriority(p.Priority); err != nil {
			return nil, motion.NewValidationError("%s", err.Error())
		}
	}

	var status []string
	for _, st := range p.Status {
		if st = strings.TrimSpace(st); st != "" {
			status = append(status, st)
		}
	}

	all, err := s.api.ListAllTasks(ctx, motion.ListTasksParams{
		Name:        strings.TrimSpace(p.Name),
		WorkspaceID: strings.TrimSpace(p.WorkspaceID),
		Status:      status,
		ProjectID:   strings.TrimSpace(p.ProjectID),
		Label:       strings.TrimSpace(p.Label),
	}, opts...)
	if err != nil {
		return nil, err
	}

	if hasRange {
		all = daterange.Filter(all, r, s.loc)
	}
	if priority == "" {
		return all, nil
	}
	out := make([]motion.Task, 0, len(all))
	for _, t := range all {
		if t.Priority == priority {
			out = append(out, t)
		}
	}
	return out, nil
}

// TaskDetails fetches one task. IDs must carry Motion's tk_ prefix.
func (s *Service) TaskDetails(ctx context.Context, id string, opts ...motion.CallOption) (*motion.Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, motion.NewValidationError("Task ID is required. Provide a Motion task ID (format: tk_...).")
	}
	if !strings.HasPrefix(id, "tk_") {
		return nil, motion.NewValidationError("Invalid task ID format. Task IDs should start with 'tk_' (e.g., tk_abc123).")
	}

	task, err := s.api.GetTask(ctx, id, opts...)
	var apiErr *motion.Error
	if errors.As(err, &apiErr) && apiErr.Kind == motion.KindNotFound {
		return nil, &motion.Error{
			Kind:       motion.KindNotFound,
			Status:     apiErr.Status,
			StatusText: apiErr.StatusText,
			Body:       apiErr.Body,
			Message:    fmt.Sprintf("Task with ID %q not found. Please verify the task ID is correct.", id),
		}
	}
	return task, err
}

// Create assembles and creates a task.
func (s *Service) Create(ctx context.Context, in Input, mode Mode) (*Created, error) {
	req, err := s.assembler.Build(ctx, in, mode)
	if err != nil {
		return nil, err
	}

	result, err := s.api.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}
	if !result.Succeeded() {
		return nil, &motion.Error{
			Kind:    motion.KindRemote,
			Message: "Failed to create task. The API returned a failure status.",
		}
	}

	s.logger.Info("task created", logging.TaskID(*result.ID), logging.Workspace(req.WorkspaceID))
	return &Created{
		ID:      *result.ID,
		Request: req,
		Task:    result.Task,
		URL:     TaskURL(*result.ID),
	}, nil
}

// Workspaces lists the account's workspaces.
func (s *Service) Workspaces(ctx context.Context, opts ...motion.CallOption) ([]motion.Workspace, error) {
	return s.api.GetWorkspaces(ctx, opts...)
}

// Projects lists a workspace's projects.
func (s *Service) Projects(ctx context.Context, workspaceID string, opts ...motion.CallOption) ([]motion.Project, error) {
	return s.api.GetProjects(ctx, workspaceID, opts...)
}

// ProjectsOptional lists a workspace's projects, treating any failure as
// "no projects". Used where projects only decorate a form.
func (s *Service) ProjectsOptional(ctx context.Context, workspaceID string) []motion.Project {
	projects, err := s.api.GetProjects(ctx, workspaceID)
	if err != nil {
		s.logger.Debug("ignoring project lookup failure", logging.Workspace(workspaceID), logging.Err(err))
		return nil
	}
	return projects
}
