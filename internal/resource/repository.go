// backend/internal/resource/repository.go
package resource

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"quiz-portal/internal/models"
)

var ErrResourceNotFound = errors.New("resource not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, res *models.Resource) error {
	if err := r.db.WithContext(ctx).Create(res).Error; err != nil {
		log.Printf("Error creating resource for group %s: %v", res.GroupID, err)
		return err
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, resourceID string) error {
	result := r.db.WithContext(ctx).Where("resource_id = ?", resourceID).Delete(&models.Resource{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrResourceNotFound
	}
	return nil
}

func (r *Repository) ListByGroup(ctx context.Context, groupID string) ([]models.Resource, error) {
	var resources []models.Resource
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at asc").
		Find(&resources).Error; err != nil {
		log.Printf("Error listing resources for group %s: %v", groupID, err)
		return nil, err
	}
	return resources, nil
}
