package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appproject "github.com/taskflow/backend/internal/application/project"
	"github.com/taskflow/backend/internal/domain/project"
	"github.com/taskflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeProjectRepository struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]*project.Project
}

func newFakeProjectRepository() *fakeProjectRepository {
	return &fakeProjectRepository{projects: make(map[uuid.UUID]*project.Project)}
}

func (r *fakeProjectRepository) Save(_ context.Context, p *project.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.ID] = p
	return nil
}

func (r *fakeProjectRepository) Update(ctx context.Context, p *project.Project) error {
	return r.Save(ctx, p)
}

func (r *fakeProjectRepository) FindByID(_ context.Context, id uuid.UUID) (*project.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProjectRepository) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*project.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*project.Project
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

type fakeTaskRepository struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*project.Task
}

func newFakeTaskRepository() *fakeTaskRepository {
	return &fakeTaskRepository{tasks: make(map[uuid.UUID]*project.Task)}
}

func (r *fakeTaskRepository) Save(_ context.Context, t *project.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = t
	return nil
}

func (r *fakeTaskRepository) Update(ctx context.Context, t *project.Task) error {
	return r.Save(ctx, t)
}

func (r *fakeTaskRepository) FindByID(_ context.Context, id uuid.UUID) (*project.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (r *fakeTaskRepository) FindAll(_ context.Context, filter project.TaskFilter) ([]*project.Task, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*project.Task
	for _, t := range r.tasks {
		if filter.ProjectID != nil && t.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTaskRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

type taskHandlerFixture struct {
	engine   *gin.Engine
	projects *fakeProjectRepository
	tasks    *fakeTaskRepository
}

func newTaskHandlerFixture() *taskHandlerFixture {
	projects := newFakeProjectRepository()
	tasks := newFakeTaskRepository()
	logger := zap.NewNop()

	taskHandler := NewTaskHandler(appproject.NewTaskService(tasks, projects, logger))
	projectHandler := NewProjectHandler(appproject.NewProjectService(projects, tasks, logger))

	engine := gin.New()
	api := engine.Group("/api/v1")
	taskHandler.RegisterRoutes(api)
	projectHandler.RegisterRoutes(api)

	return &taskHandlerFixture{engine: engine, projects: projects, tasks: tasks}
}

func (f *taskHandlerFixture) seedProject(t *testing.T) *project.Project {
	t.Helper()
	p, err := project.NewProject(uuid.New(), "Website Redesign")
	require.NoError(t, err)
	require.NoError(t, f.projects.Save(context.Background(), p))
	return p
}

func (f *taskHandlerFixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	var data T
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data
}

func TestTaskHandlerCreate(t *testing.T) {
	f := newTaskHandlerFixture()
	p := f.seedProject(t)

	w := f.do(http.MethodPost, "/api/v1/tasks", CreateTaskRequest{
		ProjectID:   p.ID,
		CreatedBy:   uuid.New(),
		Title:       "Design landing page",
		Description: "Hero section and pricing table",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	task := decodeData[TaskResponse](t, w)
	assert.Equal(t, "Design landing page", task.Title)
	assert.Equal(t, "pending", task.Status)
	assert.Equal(t, "medium", task.Priority)
}

func TestTaskHandlerCreateValidation(t *testing.T) {
	f := newTaskHandlerFixture()

	w := f.do(http.MethodPost, "/api/v1/tasks", map[string]any{"title": "no project"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandlerCreateUnknownProject(t *testing.T) {
	f := newTaskHandlerFixture()

	w := f.do(http.MethodPost, "/api/v1/tasks", CreateTaskRequest{
		ProjectID: uuid.New(),
		CreatedBy: uuid.New(),
		Title:     "Orphan task",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, shared.CodeNotFound, resp.Error.Code)
}

func TestTaskHandlerStatusTransition(t *testing.T) {
	f := newTaskHandlerFixture()
	p := f.seedProject(t)

	created := decodeData[TaskResponse](t, f.do(http.MethodPost, "/api/v1/tasks", CreateTaskRequest{
		ProjectID: p.ID,
		CreatedBy: uuid.New(),
		Title:     "Write docs",
	}))

	w := f.do(http.MethodPatch, "/api/v1/tasks/"+created.ID.String()+"/status",
		ChangeStatusRequest{Status: "in_progress"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "in_progress", decodeData[TaskResponse](t, w).Status)

	w = f.do(http.MethodPatch, "/api/v1/tasks/"+created.ID.String()+"/status",
		ChangeStatusRequest{Status: "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPatch, "/api/v1/tasks/"+created.ID.String()+"/status",
		ChangeStatusRequest{Status: "pending"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTaskHandlerGetInvalidID(t *testing.T) {
	f := newTaskHandlerFixture()

	w := f.do(http.MethodGet, "/api/v1/tasks/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandlerDelete(t *testing.T) {
	f := newTaskHandlerFixture()
	p := f.seedProject(t)

	created := decodeData[TaskResponse](t, f.do(http.MethodPost, "/api/v1/tasks", CreateTaskRequest{
		ProjectID: p.ID,
		CreatedBy: uuid.New(),
		Title:     "Throwaway",
	}))

	w := f.do(http.MethodDelete, "/api/v1/tasks/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(http.MethodGet, "/api/v1/tasks/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectHandlerCreateWithBudget(t *testing.T) {
	f := newTaskHandlerFixture()

	w := f.do(http.MethodPost, "/api/v1/projects", CreateProjectRequest{
		OwnerID: uuid.New(),
		Name:    "Mobile App",
		Budget:  &MoneyRequest{Amount: "25000.00", Currency: "EUR"},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	proj := decodeData[ProjectResponse](t, w)
	assert.Equal(t, "Mobile App", proj.Name)
	assert.Equal(t, "active", proj.Status)
	require.NotNil(t, proj.Budget)
}

func TestProjectHandlerBadCurrency(t *testing.T) {
	f := newTaskHandlerFixture()

	w := f.do(http.MethodPost, "/api/v1/projects", CreateProjectRequest{
		OwnerID: uuid.New(),
		Name:    "Mystery",
		Budget:  &MoneyRequest{Amount: "10.00", Currency: "DOLLARS"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectHandlerTasks(t *testing.T) {
	f := newTaskHandlerFixture()
	p := f.seedProject(t)

	for _, title := range []string{"First", "Second"} {
		w := f.do(http.MethodPost, "/api/v1/tasks", CreateTaskRequest{
			ProjectID: p.ID,
			CreatedBy: uuid.New(),
			Title:     title,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := f.do(http.MethodGet, "/api/v1/projects/"+p.ID.String()+"/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tasks := decodeData[[]TaskResponse](t, w)
	assert.Len(t, tasks, 2)
}
