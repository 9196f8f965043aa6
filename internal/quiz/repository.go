// backend/internal/quiz/repository.go
package quiz

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"quiz-portal/internal/models"
)

var (
	ErrGroupNotFound    = errors.New("quiz group not found")
	ErrQuestionNotFound = errors.New("question not found")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateGroup(ctx context.Context, group *models.QuizGroup) error {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		log.Printf("Error creating quiz group: %v", err)
		return err
	}
	log.Printf("Created quiz group %s (%s)", group.GroupID, group.Name)
	return nil
}

func (r *Repository) UpdateGroup(ctx context.Context, group *models.QuizGroup) error {
	if err := r.db.WithContext(ctx).Save(group).Error; err != nil {
		log.Printf("Error updating quiz group %s: %v", group.GroupID, err)
		return err
	}
	return nil
}

func (r *Repository) GetGroup(ctx context.Context, groupID string) (*models.QuizGroup, error) {
	var group models.QuizGroup
	err := r.db.WithContext(ctx).Where("group_id = ?", groupID).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		log.Printf("Error getting quiz group %s: %v", groupID, err)
		return nil, err
	}
	return &group, nil
}

func (r *Repository) ListGroups(ctx context.Context) ([]models.QuizGroup, error) {
	var groups []models.QuizGroup
	err := r.db.WithContext(ctx).Order("created_at asc").Find(&groups).Error
	return groups, err
}

// DeleteGroup removes the group together with its questions and resources.
// Attempts are history and stay.
func (r *Repository) DeleteGroup(ctx context.Context, groupID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&models.Resource{}).Error; err != nil {
			return err
		}
		result := tx.Where("group_id = ?", groupID).Delete(&models.QuizGroup{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrGroupNotFound
		}
		return nil
	})
}

func (r *Repository) CreateQuestions(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&questions).Error; err != nil {
		log.Printf("Error creating %d questions: %v", len(questions), err)
		return err
	}
	return nil
}

func (r *Repository) UpdateQuestion(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Save(question).Error
}

func (r *Repository) GetQuestion(ctx context.Context, questionID string) (*models.Question, error) {
	var question models.Question
	err := r.db.WithContext(ctx).Where("question_id = ?", questionID).First(&question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		log.Printf("Error getting question %s: %v", questionID, err)
		return nil, err
	}
	return &question, nil
}

func (r *Repository) DeleteQuestion(ctx context.Context, questionID string) error {
	result := r.db.WithContext(ctx).Where("question_id = ?", questionID).Delete(&models.Question{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// ListQuestions returns a group's questions, optionally only those with status.
func (r *Repository) ListQuestions(ctx context.Context, groupID, status string) ([]models.Question, error) {
	query := r.db.WithContext(ctx).Where("group_id = ?", groupID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var questions []models.Question
	if err := query.Order("created_at asc").Find(&questions).Error; err != nil {
		log.Printf("Error getting questions for group %s: %v", groupID, err)
		return nil, err
	}

	log.Printf("Found %d questions for group %s", len(questions), groupID)
	return questions, nil
}
