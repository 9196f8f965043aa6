// backend/internal/generate/service.go
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"quiz-portal/internal/apperror"
	"quiz-portal/internal/models"
	"quiz-portal/internal/quiz"
	"quiz-portal/pkg/textgen"
)

const EventQuestionsGenerated = "questions_generated"

const systemPrompt = "You write multiple-choice quiz questions. Reply with a JSON array only. " +
	"Each element has the keys questionText, correctChoice, incorrectChoices (exactly 3 distinct strings " +
	"that differ from correctChoice) and explanation."

type QuestionStore interface {
	GetGroup(ctx context.Context, groupID string) (*models.QuizGroup, error)
	AddGeneratedQuestions(ctx context.Context, groupID string, items []quiz.QuestionInput, createdBy string) ([]models.Question, int, error)
}

type Broadcaster interface {
	BroadcastMessage(room, msgType string, data interface{})
}

type Request struct {
	Count int    `json:"count" validate:"required,min=1,max=10"`
	Topic string `json:"topic" validate:"max=500"`
}

type Result struct {
	Questions []models.Question `json:"questions"`
	Skipped   int               `json:"skipped"`
}

type Service struct {
	generator textgen.Generator
	questions QuestionStore
	events    Broadcaster
}

// NewService returns a service that answers 503 when generator is nil. events may be nil.
func NewService(generator textgen.Generator, questions QuestionStore, events Broadcaster) *Service {
	return &Service{generator: generator, questions: questions, events: events}
}

func buildPrompt(group *models.QuizGroup, req Request) string {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = group.Name
	}
	return fmt.Sprintf("Write %d quiz questions for the quiz group %q about: %s", req.Count, group.Name, topic)
}

// Generate asks the text generator for questions and stores the usable ones as
// pending items awaiting approval.
func (s *Service) Generate(ctx context.Context, groupID string, req Request, createdBy string) (*Result, error) {
	if s.generator == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "Question generation is disabled")
	}

	group, err := s.questions.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	text, err := s.generator.Generate(ctx, systemPrompt, buildPrompt(group, req))
	if err != nil {
		return nil, fmt.Errorf("generate questions for group %s: %w", groupID, err)
	}

	items, err := parseQuestions(text)
	if err != nil {
		return nil, fmt.Errorf("parse generated questions for group %s: %w", groupID, err)
	}
	if len(items) > req.Count {
		items = items[:req.Count]
	}

	created, skipped, err := s.questions.AddGeneratedQuestions(ctx, groupID, items, createdBy)
	if err != nil {
		return nil, err
	}
	log.Printf("Generated %d pending questions for group %s (%d skipped)", len(created), groupID, skipped)

	if s.events != nil && len(created) > 0 {
		s.events.BroadcastMessage(groupID, EventQuestionsGenerated, map[string]interface{}{
			"count": len(created),
		})
	}
	if created == nil {
		created = []models.Question{}
	}
	return &Result{Questions: created, Skipped: skipped}, nil
}

// parseQuestions pulls the first JSON array out of free text. Models often wrap
// the array in prose or a code fence.
func parseQuestions(text string) ([]quiz.QuestionInput, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in generated text")
	}

	var items []quiz.QuestionInput
	if err := json.Unmarshal([]byte(text[start:end+1]), &items); err != nil {
		return nil, err
	}
	return items, nil
}
