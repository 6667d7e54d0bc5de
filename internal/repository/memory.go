package repository

import (
	"context"
	"sync"

	"github.com/DevNiNi18/flowtrack/internal/models"
)

// MemoryStore keeps users, projects and tasks in process memory. Collections
// are kept most-recent-first, so listing needs no sorting.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]models.User
	projects []models.Project
	tasks    []models.Task
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]models.User)}
}

// Users returns a UserRepository backed by the store
func (s *MemoryStore) Users() UserRepository { return memoryUsers{s} }

// Projects returns a ProjectRepository backed by the store
func (s *MemoryStore) Projects() ProjectRepository { return memoryProjects{s} }

// Tasks returns a TaskRepository backed by the store
func (s *MemoryStore) Tasks() TaskRepository { return memoryTasks{s} }

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r memoryUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

type memoryProjects struct{ s *MemoryStore }

func (r memoryProjects) Create(_ context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *project
	stored.Tasks = nil
	r.s.projects = append([]models.Project{stored}, r.s.projects...)
	return nil
}

func (r memoryProjects) FindByID(_ context.Context, id string) (*models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryProjects) ListByOwner(_ context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	owned := []models.Project{}
	for _, p := range r.s.projects {
		if p.OwnerID == filter.OwnerID {
			owned = append(owned, p)
		}
	}
	total := int64(len(owned))

	if p := filter.Pagination; p != nil {
		if p.Offset >= len(owned) {
			return []models.Project{}, total, nil
		}
		end := min(p.Offset+p.Limit, len(owned))
		owned = owned[p.Offset:end]
	}
	return owned, total, nil
}

func (r memoryProjects) Delete(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	kept := r.s.projects[:0]
	removed := false
	for _, p := range r.s.projects {
		if p.ID == id && p.OwnerID == ownerID {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	r.s.projects = kept
	if !removed {
		return nil
	}

	tasks := r.s.tasks[:0]
	for _, t := range r.s.tasks {
		if t.ProjectID != id {
			tasks = append(tasks, t)
		}
	}
	r.s.tasks = tasks
	return nil
}

type memoryTasks struct{ s *MemoryStore }

func (r memoryTasks) Create(_ context.Context, task *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.tasks = append([]models.Task{*task}, r.s.tasks...)
	return nil
}

func (r memoryTasks) FindByID(_ context.Context, id string) (*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.tasks {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryTasks) ListByProject(_ context.Context, projectID string) ([]models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tasks := []models.Task{}
	for _, t := range r.s.tasks {
		if t.ProjectID == projectID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (r memoryTasks) ListByProjects(_ context.Context, projectIDs []string) (map[string][]models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[string]struct{}, len(projectIDs))
	for _, id := range projectIDs {
		wanted[id] = struct{}{}
	}

	grouped := make(map[string][]models.Task, len(projectIDs))
	for _, t := range r.s.tasks {
		if _, ok := wanted[t.ProjectID]; ok {
			grouped[t.ProjectID] = append(grouped[t.ProjectID], t)
		}
	}
	return grouped, nil
}

func (r memoryTasks) ToggleCompleted(_ context.Context, id string) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.tasks {
		if r.s.tasks[i].ID == id {
			r.s.tasks[i].Completed = !r.s.tasks[i].Completed
			task := r.s.tasks[i]
			return &task, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryTasks) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, t := range r.s.tasks {
		if t.ID == id {
			r.s.tasks = append(r.s.tasks[:i], r.s.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}
