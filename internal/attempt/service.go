// backend/internal/attempt/service.go
package attempt

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"quiz-portal/internal/apperror"
	"quiz-portal/internal/models"
)

const EventAttemptCompleted = "attempt_completed"

type Store interface {
	Create(ctx context.Context, a *models.Attempt) error
	Get(ctx context.Context, quizSessionID string) (*models.Attempt, error)
	Save(ctx context.Context, a *models.Attempt) error
	ListByUser(ctx context.Context, userID string) ([]models.Attempt, error)
}

// QuizSource is the read side of the groups and questions service.
type QuizSource interface {
	GetGroup(ctx context.Context, groupID string) (*models.QuizGroup, error)
	ListPlayableQuestions(ctx context.Context, groupID string) ([]models.Question, error)
}

type Scoreboard interface {
	RecordScore(ctx context.Context, groupID, accountName string, score int) error
	GetLeaderboard(ctx context.Context, groupID string, limit int64) ([]models.LeaderboardEntry, error)
}

type Broadcaster interface {
	BroadcastMessage(room, msgType string, data interface{})
}

type Service struct {
	store  Store
	quiz   QuizSource
	scores Scoreboard
	events Broadcaster

	now   func() time.Time
	newID func() string

	mu   sync.Mutex
	rand *rand.Rand
}

// NewService wires the attempt manager. scores and events may be nil.
func NewService(store Store, quiz QuizSource, scores Scoreboard, events Broadcaster) *Service {
	return &Service{
		store:  store,
		quiz:   quiz,
		scores: scores,
		events: events,
		now:    time.Now,
		newID:  uuid.NewString,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// StartOrResume returns the caller's open attempt for the group, or builds a new one.
// The lookup and the create are not atomic: two concurrent starts for the same user
// and group can both create an attempt.
func (s *Service) StartOrResume(ctx context.Context, userID, groupID string) (string, bool, error) {
	now := s.now()

	existing, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return "", false, err
	}
	for _, a := range existing {
		if a.Resumable(groupID, now) {
			log.Printf("Resuming attempt %s for user %s in group %s", a.QuizSessionID, userID, groupID)
			return a.QuizSessionID, true, nil
		}
	}

	group, err := s.quiz.GetGroup(ctx, groupID)
	if err != nil {
		return "", false, err
	}
	questions, err := s.quiz.ListPlayableQuestions(ctx, groupID)
	if err != nil {
		return "", false, err
	}
	if len(questions) == 0 {
		return "", false, apperror.NotFound("No questions found for this group")
	}

	s.mu.Lock()
	answers := buildAnswers(s.rand, questions, group.EffectiveQuestionCount())
	s.mu.Unlock()

	a := &models.Attempt{
		QuizSessionID: s.newID(),
		UserID:        userID,
		GroupID:       groupID,
		Answers:       datatypes.NewJSONType(answers),
		CheckedLater:  datatypes.NewJSONType([]int{}),
		TotalCount:    len(answers),
		StartedAt:     now,
		ExpiresAt:     now.Add(group.EffectiveTimeLimit()),
	}
	if err := s.store.Create(ctx, a); err != nil {
		return "", false, err
	}

	log.Printf("Started attempt %s for user %s in group %s with %d questions", a.QuizSessionID, userID, groupID, len(answers))
	return a.QuizSessionID, false, nil
}

// owned loads an attempt and checks that userID owns it.
func (s *Service) owned(ctx context.Context, userID, quizSessionID string) (*models.Attempt, error) {
	a, err := s.store.Get(ctx, quizSessionID)
	if errors.Is(err, ErrAttemptNotFound) {
		return nil, apperror.NotFound("Quiz session not found")
	}
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, apperror.Forbidden("Quiz session belongs to another user")
	}
	return a, nil
}

// mutable loads an attempt that can still take answers.
func (s *Service) mutable(ctx context.Context, userID, quizSessionID string, number int) (*models.Attempt, error) {
	a, err := s.owned(ctx, userID, quizSessionID)
	if err != nil {
		return nil, err
	}
	if a.Submitted() {
		return nil, apperror.Conflict("Quiz already submitted")
	}
	if a.Expired(s.now()) {
		return nil, apperror.Conflict("Quiz session expired")
	}
	if number < 1 || number > len(a.Answers.Data()) {
		return nil, apperror.BadRequest("Question number out of range")
	}
	return a, nil
}

func validCheckedLater(list []int, total int) ([]int, error) {
	out := make([]int, 0, len(list))
	seen := make(map[int]bool, len(list))
	for _, n := range list {
		if n < 1 || n > total {
			return nil, apperror.BadRequest("checkedLater contains an out of range question number")
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, quizSessionID string) (models.AttemptDTO, error) {
	a, err := s.owned(ctx, userID, quizSessionID)
	if err != nil {
		return models.AttemptDTO{}, err
	}
	return a.ToDTO(a.Submitted(), s.now()), nil
}

// SubmitAnswer records choice for the 1-based question number. A nil checkedLater
// leaves the marked-for-later list as it is.
func (s *Service) SubmitAnswer(ctx context.Context, userID, quizSessionID string, number int, choice string, checkedLater []int) (models.AttemptDTO, error) {
	a, err := s.mutable(ctx, userID, quizSessionID, number)
	if err != nil {
		return models.AttemptDTO{}, err
	}

	answers := a.Answers.Data()
	answer := answers[number-1]
	if !contains(answer.Choices, choice) {
		return models.AttemptDTO{}, apperror.BadRequest("Choice is not one of the presented options")
	}
	answer.SelectedChoice = &choice
	answers[number-1] = answer
	a.Answers = datatypes.NewJSONType(answers)

	if checkedLater != nil {
		list, err := validCheckedLater(checkedLater, len(answers))
		if err != nil {
			return models.AttemptDTO{}, err
		}
		a.CheckedLater = datatypes.NewJSONType(list)
	}

	if err := s.store.Save(ctx, a); err != nil {
		return models.AttemptDTO{}, err
	}
	return a.ToDTO(false, s.now()), nil
}

// MarkAfterCheck flags question number for later review. value defaults to true.
// Without an explicit checkedLater list the number is added to or removed from the
// stored one.
func (s *Service) MarkAfterCheck(ctx context.Context, userID, quizSessionID string, number int, value *bool, checkedLater []int) (models.AttemptDTO, error) {
	a, err := s.mutable(ctx, userID, quizSessionID, number)
	if err != nil {
		return models.AttemptDTO{}, err
	}

	mark := true
	if value != nil {
		mark = *value
	}

	answers := a.Answers.Data()
	answer := answers[number-1]
	answer.AfterCheck = &mark
	answers[number-1] = answer
	a.Answers = datatypes.NewJSONType(answers)

	if checkedLater == nil {
		checkedLater = toggled(a.CheckedLater.Data(), number, mark)
	}
	list, err := validCheckedLater(checkedLater, len(answers))
	if err != nil {
		return models.AttemptDTO{}, err
	}
	a.CheckedLater = datatypes.NewJSONType(list)

	if err := s.store.Save(ctx, a); err != nil {
		return models.AttemptDTO{}, err
	}
	return a.ToDTO(false, s.now()), nil
}

// Complete submits the attempt. An attempt past its time limit can still be
// submitted with whatever was answered.
func (s *Service) Complete(ctx context.Context, userID, accountName, quizSessionID string) (models.AttemptDTO, error) {
	a, err := s.owned(ctx, userID, quizSessionID)
	if err != nil {
		return models.AttemptDTO{}, err
	}
	if a.Submitted() {
		return models.AttemptDTO{}, apperror.Conflict("Quiz already submitted")
	}

	now := s.now()
	a.SubmittedAt = &now
	if err := s.store.Save(ctx, a); err != nil {
		return models.AttemptDTO{}, err
	}

	correct := a.CorrectCount()
	log.Printf("Attempt %s completed by %s: %d/%d", a.QuizSessionID, accountName, correct, a.TotalCount)

	if s.scores != nil {
		if err := s.scores.RecordScore(ctx, a.GroupID, accountName, correct); err != nil {
			log.Printf("Error recording score for %s in group %s: %v", accountName, a.GroupID, err)
		}
	}
	if s.events != nil {
		s.events.BroadcastMessage(a.GroupID, EventAttemptCompleted, map[string]interface{}{
			"accountName":  accountName,
			"correctCount": correct,
			"totalCount":   a.TotalCount,
		})
	}

	return a.ToDTO(true, now), nil
}

func (s *Service) Result(ctx context.Context, userID, quizSessionID string) (models.AttemptDTO, error) {
	a, err := s.owned(ctx, userID, quizSessionID)
	if err != nil {
		return models.AttemptDTO{}, err
	}
	if !a.Submitted() {
		return models.AttemptDTO{}, apperror.Conflict("Quiz not yet submitted")
	}
	return a.ToDTO(true, s.now()), nil
}

// History lists the user's submitted attempts, newest first, optionally for one group.
func (s *Service) History(ctx context.Context, userID, groupID string) ([]models.AttemptSummary, error) {
	attempts, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.AttemptSummary, 0, len(attempts))
	for _, a := range attempts {
		if !a.Submitted() || (groupID != "" && a.GroupID != groupID) {
			continue
		}
		out = append(out, a.Summary())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(*out[j].SubmittedAt)
	})
	return out, nil
}

func (s *Service) Leaderboard(ctx context.Context, groupID string, limit int64) ([]models.LeaderboardEntry, error) {
	if s.scores == nil {
		return []models.LeaderboardEntry{}, nil
	}
	if _, err := s.quiz.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.scores.GetLeaderboard(ctx, groupID, limit)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func toggled(list []int, number int, on bool) []int {
	out := make([]int, 0, len(list)+1)
	for _, n := range list {
		if n != number {
			out = append(out, n)
		}
	}
	if on {
		out = append(out, number)
	}
	return out
}
