package project

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/backend/internal/domain/project"
	"github.com/taskflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

type memoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*project.Task
}

func newMemoryTaskRepository() *memoryTaskRepository {
	return &memoryTaskRepository{tasks: make(map[uuid.UUID]*project.Task)}
}

func (r *memoryTaskRepository) Save(_ context.Context, task *project.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = task
	return nil
}

func (r *memoryTaskRepository) Update(ctx context.Context, task *project.Task) error {
	return r.Save(ctx, task)
}

func (r *memoryTaskRepository) FindByID(_ context.Context, id uuid.UUID) (*project.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return task, nil
}

func (r *memoryTaskRepository) FindAll(_ context.Context, filter project.TaskFilter) ([]*project.Task, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*project.Task
	for _, task := range r.tasks {
		if filter.ProjectID != nil && task.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.AssignedTo != nil && (task.AssignedTo == nil || *task.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		result = append(result, task)
	}
	return result, int64(len(result)), nil
}

func (r *memoryTaskRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
	return nil
}

type memoryProjectRepository struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]*project.Project
}

func newMemoryProjectRepository() *memoryProjectRepository {
	return &memoryProjectRepository{projects: make(map[uuid.UUID]*project.Project)}
}

func (r *memoryProjectRepository) Save(_ context.Context, proj *project.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[proj.ID] = proj
	return nil
}

func (r *memoryProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	return r.Save(ctx, proj)
}

func (r *memoryProjectRepository) FindByID(_ context.Context, id uuid.UUID) (*project.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	proj, ok := r.projects[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return proj, nil
}

func (r *memoryProjectRepository) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*project.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*project.Project
	for _, proj := range r.projects {
		if proj.OwnerID == ownerID {
			result = append(result, proj)
		}
	}
	return result, nil
}

func (r *memoryProjectRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.projects, id)
	return nil
}

type taskFixture struct {
	svc      *TaskService
	projects *memoryProjectRepository
	tasks    *memoryTaskRepository
	project  *project.Project
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	f := &taskFixture{
		projects: newMemoryProjectRepository(),
		tasks:    newMemoryTaskRepository(),
	}
	f.svc = NewTaskService(f.tasks, f.projects, zap.NewNop())

	proj, err := project.NewProject(uuid.New(), "Website Redesign")
	require.NoError(t, err)
	require.NoError(t, f.projects.Save(context.Background(), proj))
	f.project = proj
	return f
}

func TestTaskServiceCreateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending task with defaults", func(t *testing.T) {
		f := newTaskFixture(t)

		task, err := f.svc.CreateTask(ctx, CreateTaskInput{
			ProjectID: f.project.ID,
			CreatedBy: uuid.New(),
			Title:     "Design landing page",
		})
		require.NoError(t, err)
		assert.Equal(t, project.TaskStatusPending, task.Status)
		assert.Equal(t, project.PriorityMedium, task.Priority)
		assert.Nil(t, task.AssignedTo)
	})

	t.Run("applies optional fields", func(t *testing.T) {
		f := newTaskFixture(t)
		assignee := uuid.New()
		due := time.Now().AddDate(0, 0, 7)
		priority := project.PriorityUrgent

		task, err := f.svc.CreateTask(ctx, CreateTaskInput{
			ProjectID:  f.project.ID,
			CreatedBy:  uuid.New(),
			Title:      "Fix login",
			Priority:   &priority,
			AssignedTo: &assignee,
			DueDate:    &due,
			Tags:       []string{"bug", "auth", "bug"},
		})
		require.NoError(t, err)
		assert.Equal(t, project.PriorityUrgent, task.Priority)
		require.NotNil(t, task.AssignedTo)
		assert.Equal(t, assignee, *task.AssignedTo)
		assert.Equal(t, []string{"bug", "auth"}, task.Tags)
	})

	t.Run("rejects an unknown project", func(t *testing.T) {
		f := newTaskFixture(t)

		_, err := f.svc.CreateTask(ctx, CreateTaskInput{
			ProjectID: uuid.New(),
			CreatedBy: uuid.New(),
			Title:     "orphan",
		})
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.CodeNotFound))
	})
}

func TestTaskServiceStatusLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)

	task, err := f.svc.CreateTask(ctx, CreateTaskInput{
		ProjectID: f.project.ID,
		CreatedBy: uuid.New(),
		Title:     "Implement search",
	})
	require.NoError(t, err)

	t.Run("pending to in progress to completed", func(t *testing.T) {
		_, err := f.svc.ChangeTaskStatus(ctx, task.ID, project.TaskStatusInProgress)
		require.NoError(t, err)

		updated, err := f.svc.ChangeTaskStatus(ctx, task.ID, project.TaskStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, project.TaskStatusCompleted, updated.Status)
	})

	t.Run("completed tasks cannot move", func(t *testing.T) {
		_, err := f.svc.ChangeTaskStatus(ctx, task.ID, project.TaskStatusInProgress)
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.CodeInvalidTransition))

		// The stored task is untouched by the rejected transition.
		stored, err := f.svc.GetTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, project.TaskStatusCompleted, stored.Status)
	})
}

func TestTaskServiceAssignTask(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)

	task, err := f.svc.CreateTask(ctx, CreateTaskInput{
		ProjectID: f.project.ID,
		CreatedBy: uuid.New(),
		Title:     "Review PR",
	})
	require.NoError(t, err)

	assignee := uuid.New()
	updated, err := f.svc.AssignTask(ctx, task.ID, &assignee)
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, assignee, *updated.AssignedTo)

	updated, err = f.svc.AssignTask(ctx, task.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedTo)
}

func TestTaskServiceListTasks(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	assignee := uuid.New()

	for i, title := range []string{"a", "b", "c"} {
		input := CreateTaskInput{ProjectID: f.project.ID, CreatedBy: uuid.New(), Title: title}
		if i == 0 {
			input.AssignedTo = &assignee
		}
		_, err := f.svc.CreateTask(ctx, input)
		require.NoError(t, err)
	}

	all, err := f.svc.ListTasks(ctx, project.TaskFilter{ProjectID: &f.project.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	mine, err := f.svc.ListTasks(ctx, project.TaskFilter{AssignedTo: &assignee})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.Total)
}

func TestProjectServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	projects := newMemoryProjectRepository()
	tasks := newMemoryTaskRepository()
	svc := NewProjectService(projects, tasks, zap.NewNop())

	proj, err := svc.CreateProject(ctx, CreateProjectInput{
		OwnerID: uuid.New(),
		Name:    "Mobile App",
	})
	require.NoError(t, err)
	assert.Equal(t, project.ProjectStatusActive, proj.Status)

	t.Run("hold and reactivate", func(t *testing.T) {
		_, err := svc.ChangeProjectStatus(ctx, proj.ID, project.ProjectStatusOnHold)
		require.NoError(t, err)

		updated, err := svc.ChangeProjectStatus(ctx, proj.ID, project.ProjectStatusActive)
		require.NoError(t, err)
		assert.Equal(t, project.ProjectStatusActive, updated.Status)
	})

	t.Run("completed projects are terminal", func(t *testing.T) {
		_, err := svc.ChangeProjectStatus(ctx, proj.ID, project.ProjectStatusCompleted)
		require.NoError(t, err)

		_, err = svc.ChangeProjectStatus(ctx, proj.ID, project.ProjectStatusActive)
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.CodeInvalidTransition))
	})

	t.Run("owner listing", func(t *testing.T) {
		owner := uuid.New()
		_, err := svc.CreateProject(ctx, CreateProjectInput{OwnerID: owner, Name: "one"})
		require.NoError(t, err)
		_, err = svc.CreateProject(ctx, CreateProjectInput{OwnerID: owner, Name: "two"})
		require.NoError(t, err)

		owned, err := svc.ListProjectsByOwner(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, owned, 2)
	})
}
