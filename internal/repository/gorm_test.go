package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DevNiNi18/flowtrack/internal/models"
	"github.com/DevNiNi18/flowtrack/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{}))
	return db
}

var base = time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return base.Add(time.Duration(minutes) * time.Minute)
}

func TestGormUserRepository(t *testing.T) {
	repo := NewUserRepository(openSQLite(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{ID: "u1", Email: "a@example.com", PasswordHash: "x"}))
	assert.ErrorIs(t, repo.Create(ctx, &models.User{ID: "u2", Email: "a@example.com", PasswordHash: "x"}), ErrDuplicate)

	got, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormProjectRepository_ListByOwner(t *testing.T) {
	db := openSQLite(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	for i, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, repo.Create(ctx, &models.Project{
			ID: id, OwnerID: "owner", Title: id, DueDate: base, CreatedAt: at(i),
		}))
	}
	require.NoError(t, repo.Create(ctx, &models.Project{ID: "other", OwnerID: "someone", Title: "x", DueDate: base}))

	list, total, err := repo.ListByOwner(ctx, ProjectFilter{OwnerID: "owner"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"p3", "p2", "p1"}, []string{list[0].ID, list[1].ID, list[2].ID})

	page, total, err := repo.ListByOwner(ctx, ProjectFilter{
		OwnerID:    "owner",
		Pagination: &utils.PaginationParams{Page: 1, Limit: 2, Offset: 0},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 2)

	none, total, err := repo.ListByOwner(ctx, ProjectFilter{OwnerID: "nobody"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGormProjectRepository_DeleteCascades(t *testing.T) {
	db := openSQLite(t)
	projects := NewProjectRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	require.NoError(t, projects.Create(ctx, &models.Project{ID: "p1", OwnerID: "owner", Title: "a", DueDate: base}))
	require.NoError(t, projects.Create(ctx, &models.Project{ID: "p2", OwnerID: "owner", Title: "b", DueDate: base}))
	require.NoError(t, tasks.Create(ctx, &models.Task{ID: "t1", ProjectID: "p1", Title: "x"}))
	require.NoError(t, tasks.Create(ctx, &models.Task{ID: "t2", ProjectID: "p1", Title: "y"}))
	require.NoError(t, tasks.Create(ctx, &models.Task{ID: "t3", ProjectID: "p2", Title: "z"}))

	require.NoError(t, projects.Delete(ctx, "intruder", "p1"))
	left, err := tasks.ListByProject(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, left, 2)

	require.NoError(t, projects.Delete(ctx, "owner", "p1"))
	require.NoError(t, projects.Delete(ctx, "owner", "p1"))

	_, err = projects.FindByID(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)

	left, err = tasks.ListByProject(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, left)

	kept, err := tasks.ListByProject(ctx, "p2")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestGormTaskRepository(t *testing.T) {
	db := openSQLite(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Task{ID: "t1", ProjectID: "p1", Title: "a", CreatedAt: at(0)}))
	require.NoError(t, repo.Create(ctx, &models.Task{ID: "t2", ProjectID: "p1", Title: "b", CreatedAt: at(1)}))
	require.NoError(t, repo.Create(ctx, &models.Task{ID: "t3", ProjectID: "p2", Title: "c", CreatedAt: at(2)}))

	list, err := repo.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "t2", list[0].ID)

	toggled, err := repo.ToggleCompleted(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.Equal(t, "a", toggled.Title)
	got, err := repo.FindByID(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, got.Completed)

	toggled, err = repo.ToggleCompleted(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, toggled.Completed)
	got, err = repo.FindByID(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, got.Completed)

	_, err = repo.ToggleCompleted(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	grouped, err := repo.ListByProjects(ctx, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Len(t, grouped["p1"], 2)
	assert.Len(t, grouped["p2"], 1)

	empty, err := repo.ListByProjects(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, repo.Delete(ctx, "t1"))
	require.NoError(t, repo.Delete(ctx, "t1"))
	_, err = repo.FindByID(ctx, "t1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormTaskRepository_ConcurrentTogglesAreNotLost(t *testing.T) {
	db := openSQLite(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Task{ID: "t1", ProjectID: "p1", Title: "a", CreatedAt: at(0)}))

	var wg sync.WaitGroup
	for range 9 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ToggleCompleted(ctx, "t1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.FindByID(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, got.Completed)
}
