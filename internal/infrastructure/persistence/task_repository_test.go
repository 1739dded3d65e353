package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/backend/internal/domain/project"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
)

func TestGormProjectRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProjectRepository(newTestDB(t))
	ownerID := uuid.New()

	proj, err := project.NewProject(ownerID, "Website Redesign")
	require.NoError(t, err)
	budget, err := valueobject.NewMoneyFromFloat(25000, valueobject.EUR)
	require.NoError(t, err)
	proj.SetBudget(budget)
	require.NoError(t, repo.Save(ctx, proj))

	t.Run("round trip preserves budget currency", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, proj.ID)
		require.NoError(t, err)
		assert.Equal(t, "Website Redesign", loaded.Name)
		require.NotNil(t, loaded.Budget)
		assert.Equal(t, "25000.00", loaded.Budget.StringFixed())
		assert.Equal(t, valueobject.EUR, loaded.Budget.Currency())
	})

	t.Run("status changes persist", func(t *testing.T) {
		require.NoError(t, proj.Hold())
		require.NoError(t, repo.Update(ctx, proj))

		loaded, err := repo.FindByID(ctx, proj.ID)
		require.NoError(t, err)
		assert.Equal(t, project.ProjectStatusOnHold, loaded.Status)
	})

	t.Run("owner listing", func(t *testing.T) {
		owned, err := repo.FindByOwner(ctx, ownerID)
		require.NoError(t, err)
		assert.Len(t, owned, 1)

		none, err := repo.FindByOwner(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, proj.ID))
		_, err := repo.FindByID(ctx, proj.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, proj.ID), shared.ErrNotFound)
	})
}

func TestGormTaskRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormTaskRepository(newTestDB(t))
	projectID := uuid.New()

	newSavedTask := func(t *testing.T, title string) *project.Task {
		t.Helper()
		task, err := project.NewTask(projectID, uuid.New(), title)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, task))
		return task
	}

	t.Run("round trip preserves tags and due date", func(t *testing.T) {
		task := newSavedTask(t, "Design landing page")
		task.AddTag("design")
		task.AddTag("frontend")
		due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		task.SetDueDate(due)
		require.NoError(t, repo.Update(ctx, task))

		loaded, err := repo.FindByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"design", "frontend"}, loaded.Tags)
		require.NotNil(t, loaded.DueDate)
		assert.True(t, loaded.DueDate.Equal(due))
		assert.Equal(t, project.TaskStatusPending, loaded.Status)
	})

	t.Run("filtering and pagination", func(t *testing.T) {
		assignee := uuid.New()
		for i := 0; i < 3; i++ {
			task := newSavedTask(t, "filtered")
			if i == 0 {
				require.NoError(t, task.AssignTo(assignee))
				require.NoError(t, task.Start())
				require.NoError(t, repo.Update(ctx, task))
			}
		}

		inProgress := project.TaskStatusInProgress
		tasks, total, err := repo.FindAll(ctx, project.TaskFilter{ProjectID: &projectID, Status: &inProgress})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, tasks, 1)
		require.NotNil(t, tasks[0].AssignedTo)
		assert.Equal(t, assignee, *tasks[0].AssignedTo)

		_, total, err = repo.FindAll(ctx, project.TaskFilter{ProjectID: &projectID})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)

		page, _, err := repo.FindAll(ctx, project.TaskFilter{ProjectID: &projectID, Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Len(t, page, 2)
	})
}
