package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DevNiNi18/flowtrack/internal/models"
	"github.com/DevNiNi18/flowtrack/internal/repository"
	"github.com/DevNiNi18/flowtrack/internal/validation"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errBackendDown = errors.New("connection refused")

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	t := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

type testEnv struct {
	store    *repository.MemoryStore
	auth     *AuthService
	projects *ProjectService
	tasks    *TaskService
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	store := repository.NewMemoryStore()
	auth := NewAuthService(store.Users())
	auth.cost = bcrypt.MinCost

	projects := NewProjectService(store.Projects(), store.Tasks())
	projects.now = tickingClock()

	tasks := NewTaskService(store.Tasks(), store.Projects(), nil)
	tasks.now = tickingClock()

	return testEnv{store: store, auth: auth, projects: projects, tasks: tasks}
}

func (env testEnv) createProject(t *testing.T, ownerID, title string) *ProjectWithProgress {
	t.Helper()
	p, err := env.projects.Create(context.Background(), ownerID, validation.Values{
		validation.FieldProjectTitle: title,
		validation.FieldDueDate:      "2025-12-01",
	})
	require.NoError(t, err)
	return p
}

func (env testEnv) createTask(t *testing.T, projectID, title string) *models.Task {
	t.Helper()
	task, err := env.tasks.Create(context.Background(), projectID, validation.Values{
		validation.FieldTaskTitle: title,
	})
	require.NoError(t, err)
	return task
}

// failingProjects fails every call with errBackendDown.
type failingProjects struct{}

func (failingProjects) Create(context.Context, *models.Project) error { return errBackendDown }
func (failingProjects) FindByID(context.Context, string) (*models.Project, error) {
	return nil, errBackendDown
}
func (failingProjects) ListByOwner(context.Context, repository.ProjectFilter) ([]models.Project, int64, error) {
	return nil, 0, errBackendDown
}
func (failingProjects) Delete(context.Context, string, string) error { return errBackendDown }

// failingTasks wraps a working repository and fails mutations.
type failingTasks struct {
	repository.TaskRepository
}

func (failingTasks) Create(context.Context, *models.Task) error { return errBackendDown }
func (failingTasks) ToggleCompleted(context.Context, string) (*models.Task, error) {
	return nil, errBackendDown
}
func (failingTasks) Delete(context.Context, string) error { return errBackendDown }
