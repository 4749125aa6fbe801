package repository

import (
	"sync"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/store"
)

// JSONTaskRepository stores per-project task lists in project-tasks.json
type JSONTaskRepository struct {
	store *store.Store
	mu    sync.Mutex
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(s *store.Store) TaskRepository {
	return &JSONTaskRepository{store: s}
}

func (r *JSONTaskRepository) load() ([]models.ProjectTasks, error) {
	var groups []models.ProjectTasks
	if err := r.store.Read(store.FileProjectTasks, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// ListGroups returns every project's task list
func (r *JSONTaskRepository) ListGroups() ([]models.ProjectTasks, error) {
	return r.load()
}

// FindGroup returns one project's task list
func (r *JSONTaskRepository) FindGroup(projectID string) (*models.ProjectTasks, error) {
	groups, err := r.load()
	if err != nil {
		return nil, err
	}

	for i := range groups {
		if groups[i].ProjectID == projectID {
			return &groups[i], nil
		}
	}
	return nil, ErrNotFound
}

// FindTask returns a single task within a project
func (r *JSONTaskRepository) FindTask(projectID, taskID string) (*models.Task, error) {
	group, err := r.FindGroup(projectID)
	if err != nil {
		return nil, err
	}

	for i := range group.Tasks {
		if group.Tasks[i].ID == taskID {
			return &group.Tasks[i], nil
		}
	}
	return nil, ErrNotFound
}

// AppendTask adds a task to the end of a project's list, creating the
// group on first use
func (r *JSONTaskRepository) AppendTask(projectID string, task models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	groups, err := r.load()
	if err != nil {
		return err
	}

	for i := range groups {
		if groups[i].ProjectID == projectID {
			groups[i].Tasks = append(groups[i].Tasks, task)
			return r.store.Write(store.FileProjectTasks, groups)
		}
	}

	groups = append(groups, models.ProjectTasks{
		ProjectID: projectID,
		Tasks:     []models.Task{task},
	})
	return r.store.Write(store.FileProjectTasks, groups)
}

// UpdateTask replaces a task in place, keeping list order
func (r *JSONTaskRepository) UpdateTask(projectID string, task models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	groups, err := r.load()
	if err != nil {
		return err
	}

	for i := range groups {
		if groups[i].ProjectID != projectID {
			continue
		}
		for j := range groups[i].Tasks {
			if groups[i].Tasks[j].ID == task.ID {
				groups[i].Tasks[j] = task
				return r.store.Write(store.FileProjectTasks, groups)
			}
		}
	}
	return ErrNotFound
}
