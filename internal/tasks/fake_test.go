package tasks

import (
	"context"
	"sync"

	"github.com/teemow/motionmcp/internal/motion"
)

// fakeAPI is an in-memory API recording the calls it receives.
type fakeAPI struct {
	mu sync.Mutex

	workspaces    []motion.Workspace
	projects      map[string][]motion.Project
	tasks         []motion.Task
	task          *motion.Task
	createResult  *motion.CreateTaskResult
	err           error
	hasCredential bool

	listCalls   []motion.ListTasksParams
	createCalls []motion.CreateTaskRequest
	getCalls    []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		workspaces:    []motion.Workspace{{ID: "ws_1", Name: "Personal"}, {ID: "ws_2", Name: "Work"}},
		projects:      map[string][]motion.Project{"ws_1": {{ID: "pr_1", Name: "Garden"}}},
		hasCredential: true,
	}
}

func (f *fakeAPI) GetWorkspaces(context.Context, ...motion.CallOption) ([]motion.Workspace, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.workspaces, nil
}

func (f *fakeAPI) GetProjects(_ context.Context, workspaceID string, _ ...motion.CallOption) ([]motion.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.projects[workspaceID], nil
}

func (f *fakeAPI) ListAllTasks(_ context.Context, params motion.ListTasksParams, _ ...motion.CallOption) ([]motion.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.tasks, nil
}

func (f *fakeAPI) GetTask(_ context.Context, id string, _ ...motion.CallOption) (*motion.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls = append(f.getCalls, id)
	if f.err != nil {
		return nil, f.err
	}
	return f.task, nil
}

func (f *fakeAPI) CreateTask(_ context.Context, req motion.CreateTaskRequest) (*motion.CreateTaskResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.createResult != nil {
		return f.createResult, nil
	}
	id := "tk_new"
	return &motion.CreateTaskResult{
		Status: motion.CreateSuccess,
		ID:     &id,
		Task:   &motion.Task{ID: id, Name: req.Name},
	}, nil
}

func (f *fakeAPI) HasCredential(context.Context) bool {
	return f.hasCredential
}
