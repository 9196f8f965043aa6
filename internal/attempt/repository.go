// backend/internal/attempt/repository.go
package attempt

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"quiz-portal/internal/models"
)

var ErrAttemptNotFound = errors.New("attempt not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, a *models.Attempt) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		log.Printf("Error creating attempt for user %s: %v", a.UserID, err)
		return err
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, quizSessionID string) (*models.Attempt, error) {
	var a models.Attempt
	err := r.db.WithContext(ctx).Where("quiz_session_id = ?", quizSessionID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		log.Printf("Error getting attempt %s: %v", quizSessionID, err)
		return nil, err
	}
	return &a, nil
}

func (r *Repository) Save(ctx context.Context, a *models.Attempt) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		log.Printf("Error saving attempt %s: %v", a.QuizSessionID, err)
		return err
	}
	return nil
}

// ListByUser uses the user_id index; callers filter the rows further in memory.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]models.Attempt, error) {
	var attempts []models.Attempt
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at asc").
		Find(&attempts).Error; err != nil {
		log.Printf("Error listing attempts for user %s: %v", userID, err)
		return nil, err
	}
	return attempts, nil
}

// DeleteAbandoned removes up to limit unsubmitted attempts that expired before cutoff.
func (r *Repository) DeleteAbandoned(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.Attempt{}).
		Where("submitted_at IS NULL AND expires_at < ?", cutoff).
		Limit(limit).
		Pluck("quiz_session_id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Where("quiz_session_id IN ?", ids).Delete(&models.Attempt{})
	return result.RowsAffected, result.Error
}
