// backend/internal/quiz/service.go
package quiz

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"quiz-portal/internal/apperror"
	"quiz-portal/internal/httpx"
	"quiz-portal/internal/models"
)

// GroupCache is the read-through cache in front of the groups table.
type GroupCache interface {
	GetGroup(ctx context.Context, groupID string) (*models.QuizGroup, error)
	SetGroup(ctx context.Context, group *models.QuizGroup) error
	DeleteGroup(ctx context.Context, groupID string) error
}

type GroupInput struct {
	Name             string `json:"name" validate:"required,max=200"`
	QuestionCount    int    `json:"questionCount" validate:"omitempty,min=1,max=200"`
	TimeLimitMinutes int    `json:"timeLimitMinutes" validate:"omitempty,min=1,max=1440"`
}

type QuestionInput struct {
	QuestionText     string   `json:"questionText" validate:"required,max=2000"`
	CorrectChoice    string   `json:"correctChoice" validate:"required,max=500"`
	IncorrectChoices []string `json:"incorrectChoices" validate:"required,min=3,max=20,dive,required,max=500"`
	Explanation      string   `json:"explanation" validate:"max=4000"`
}

// Check applies the rules the struct tags cannot express. Choices are compared
// after trimming: none may be blank, incorrect choices are distinct and never
// equal to the correct one.
func (in QuestionInput) Check() error {
	if err := httpx.Validate(in); err != nil {
		return err
	}
	if strings.TrimSpace(in.QuestionText) == "" {
		return apperror.BadRequest("questionText must not be blank")
	}
	correct := strings.TrimSpace(in.CorrectChoice)
	if correct == "" {
		return apperror.BadRequest("correctChoice must not be blank")
	}
	seen := make(map[string]bool, len(in.IncorrectChoices))
	for _, choice := range in.IncorrectChoices {
		c := strings.TrimSpace(choice)
		if c == "" {
			return apperror.BadRequest("incorrectChoices must not be blank")
		}
		if c == correct {
			return apperror.BadRequest("incorrectChoices must not contain the correct choice")
		}
		if seen[c] {
			return apperror.BadRequest("incorrectChoices must be distinct")
		}
		seen[c] = true
	}
	return nil
}

func (in QuestionInput) trimmedIncorrect() []string {
	out := make([]string, len(in.IncorrectChoices))
	for i, c := range in.IncorrectChoices {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

type Service struct {
	repo  *Repository
	cache GroupCache
	now   func() time.Time
}

func NewService(repo *Repository, cache GroupCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

func groupError(err error) error {
	if errors.Is(err, ErrGroupNotFound) {
		return apperror.NotFound("Quiz group not found")
	}
	return err
}

func questionError(err error) error {
	if errors.Is(err, ErrQuestionNotFound) {
		return apperror.NotFound("Question not found")
	}
	return err
}

func (s *Service) CreateGroup(ctx context.Context, in GroupInput, createdBy string) (*models.QuizGroup, error) {
	group := &models.QuizGroup{
		GroupID:          uuid.NewString(),
		Name:             strings.TrimSpace(in.Name),
		QuestionCount:    in.QuestionCount,
		TimeLimitMinutes: in.TimeLimitMinutes,
		CreatedAt:        s.now(),
		CreatedBy:        createdBy,
	}
	if group.QuestionCount <= 0 {
		group.QuestionCount = models.DefaultQuestionCount
	}
	if group.TimeLimitMinutes <= 0 {
		group.TimeLimitMinutes = models.DefaultTimeLimitMinutes
	}

	if err := s.repo.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	s.cacheGroup(ctx, group)
	return group, nil
}

func (s *Service) UpdateGroup(ctx context.Context, groupID string, in GroupInput) (*models.QuizGroup, error) {
	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, groupError(err)
	}

	group.Name = strings.TrimSpace(in.Name)
	if in.QuestionCount > 0 {
		group.QuestionCount = in.QuestionCount
	}
	if in.TimeLimitMinutes > 0 {
		group.TimeLimitMinutes = in.TimeLimitMinutes
	}
	if err := s.repo.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}
	s.cacheGroup(ctx, group)
	return group, nil
}

func (s *Service) DeleteGroup(ctx context.Context, groupID string) error {
	if err := s.repo.DeleteGroup(ctx, groupID); err != nil {
		return groupError(err)
	}
	if s.cache != nil {
		if err := s.cache.DeleteGroup(ctx, groupID); err != nil {
			log.Printf("Error clearing cached group %s: %v", groupID, err)
		}
	}
	return nil
}

// GetGroup reads through the cache.
func (s *Service) GetGroup(ctx context.Context, groupID string) (*models.QuizGroup, error) {
	if s.cache != nil {
		group, err := s.cache.GetGroup(ctx, groupID)
		if err != nil {
			log.Printf("Error reading cached group %s: %v", groupID, err)
		}
		if group != nil {
			return group, nil
		}
	}

	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, groupError(err)
	}
	s.cacheGroup(ctx, group)
	return group, nil
}

func (s *Service) cacheGroup(ctx context.Context, group *models.QuizGroup) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetGroup(ctx, group); err != nil {
		log.Printf("Error caching group %s: %v", group.GroupID, err)
	}
}

func (s *Service) ListGroups(ctx context.Context) ([]models.QuizGroup, error) {
	return s.repo.ListGroups(ctx)
}

func (s *Service) ListQuestions(ctx context.Context, groupID, status string) ([]models.Question, error) {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.ListQuestions(ctx, groupID, status)
}

// ListPlayableQuestions returns the questions a quiz may draw from. Generated
// questions only become playable once approved.
func (s *Service) ListPlayableQuestions(ctx context.Context, groupID string) ([]models.Question, error) {
	return s.repo.ListQuestions(ctx, groupID, models.QuestionStatusApproved)
}

func (s *Service) newQuestion(groupID string, in QuestionInput, typ, status, createdBy string) models.Question {
	return models.Question{
		QuestionID:       uuid.NewString(),
		GroupID:          groupID,
		Type:             typ,
		QuestionText:     strings.TrimSpace(in.QuestionText),
		CorrectChoice:    strings.TrimSpace(in.CorrectChoice),
		IncorrectChoices: datatypes.NewJSONType(in.trimmedIncorrect()),
		Explanation:      strings.TrimSpace(in.Explanation),
		Status:           status,
		CreatedAt:        s.now(),
		CreatedBy:        createdBy,
	}
}

func (s *Service) CreateQuestion(ctx context.Context, groupID string, in QuestionInput, createdBy string) (*models.Question, error) {
	if err := in.Check(); err != nil {
		return nil, err
	}
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	question := s.newQuestion(groupID, in, models.QuestionTypeManual, models.QuestionStatusApproved, createdBy)
	if err := s.repo.CreateQuestions(ctx, []models.Question{question}); err != nil {
		return nil, err
	}
	return &question, nil
}

// AddGeneratedQuestions stores machine-authored questions as pending. Invalid
// items are skipped and reported through the returned count.
func (s *Service) AddGeneratedQuestions(ctx context.Context, groupID string, items []QuestionInput, createdBy string) ([]models.Question, int, error) {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, 0, err
	}

	questions := make([]models.Question, 0, len(items))
	skipped := 0
	for _, item := range items {
		if err := item.Check(); err != nil {
			log.Printf("Skipping generated question for group %s: %v", groupID, err)
			skipped++
			continue
		}
		questions = append(questions, s.newQuestion(groupID, item, models.QuestionTypeAuto, models.QuestionStatusPending, createdBy))
	}

	if err := s.repo.CreateQuestions(ctx, questions); err != nil {
		return nil, 0, err
	}
	return questions, skipped, nil
}

func (s *Service) UpdateQuestion(ctx context.Context, questionID string, in QuestionInput) (*models.Question, error) {
	if err := in.Check(); err != nil {
		return nil, err
	}
	question, err := s.repo.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, questionError(err)
	}

	question.QuestionText = strings.TrimSpace(in.QuestionText)
	question.CorrectChoice = strings.TrimSpace(in.CorrectChoice)
	question.IncorrectChoices = datatypes.NewJSONType(in.trimmedIncorrect())
	question.Explanation = strings.TrimSpace(in.Explanation)
	if err := s.repo.UpdateQuestion(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *Service) ApproveQuestion(ctx context.Context, questionID string) (*models.Question, error) {
	question, err := s.repo.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, questionError(err)
	}
	if question.Status == models.QuestionStatusApproved {
		return question, nil
	}

	question.Status = models.QuestionStatusApproved
	if err := s.repo.UpdateQuestion(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *Service) DeleteQuestion(ctx context.Context, questionID string) error {
	return questionError(s.repo.DeleteQuestion(ctx, questionID))
}
