package repository

import (
	"context"
	"errors"

	"github.com/DevNiNi18/flowtrack/internal/database"
	"github.com/DevNiNi18/flowtrack/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create inserts a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

// ListByOwner lists a user's projects, most recent first
func (r *GormProjectRepository) ListByOwner(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{}).Where("projects.owner_id = ?", filter.OwnerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("projects.created_at DESC")
	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}

	projects := []models.Project{}
	if err := listQuery.Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Delete removes an owner's project and its tasks in a transaction
func (r *GormProjectRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		err := tx.Select("id").Where("id = ? AND owner_id = ?", id, ownerID).First(&project).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Project{}).Error
	})
}

// translate maps GORM sentinel errors onto the repository ones. Duplicate
// keys are only reported when the connection enables TranslateError.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
