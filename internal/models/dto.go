// backend/internal/models/dto.go
package models

import "time"

type AnswerDTO struct {
	Number         int      `json:"number"`
	QuestionID     string   `json:"questionId"`
	QuestionText   string   `json:"questionText"`
	Choices        []string `json:"choices"`
	SelectedChoice *string  `json:"selectedChoice"`
	AfterCheck     *bool    `json:"afterCheck"`
	CorrectChoice  string   `json:"correctChoice,omitempty"` // Only once graded
	IsCorrect      *bool    `json:"isCorrect,omitempty"`
	Explanation    string   `json:"explanation,omitempty"`
}

type AttemptDTO struct {
	QuizSessionID    string      `json:"quizSessionId"`
	GroupID          string      `json:"groupId"`
	Answers          []AnswerDTO `json:"answers"`
	CheckedLater     []int       `json:"checkedLater"`
	TotalCount       int         `json:"totalCount"`
	CorrectCount     *int        `json:"correctCount,omitempty"`
	StartedAt        time.Time   `json:"startedAt"`
	ExpiresAt        time.Time   `json:"expiresAt"`
	SubmittedAt      *time.Time  `json:"submittedAt"`
	RemainingSeconds int64       `json:"remainingSeconds"`
}

// Graded fills IsCorrect from SelectedChoice. An unanswered question counts as wrong.
func (a Answer) Graded() Answer {
	correct := a.SelectedChoice != nil && *a.SelectedChoice == a.CorrectChoice
	a.IsCorrect = &correct
	return a
}

func (a Attempt) CorrectCount() int {
	count := 0
	for _, ans := range a.Answers.Data() {
		if *ans.Graded().IsCorrect {
			count++
		}
	}
	return count
}

// ToDTO renders the attempt for its owner. With reveal set, answers are graded and
// carry the correct choice and explanation.
func (a Attempt) ToDTO(reveal bool, now time.Time) AttemptDTO {
	answers := a.Answers.Data()
	dtos := make([]AnswerDTO, len(answers))
	for i, ans := range answers {
		dto := AnswerDTO{
			Number:         i + 1,
			QuestionID:     ans.QuestionID,
			QuestionText:   ans.QuestionText,
			Choices:        ans.Choices,
			SelectedChoice: ans.SelectedChoice,
			AfterCheck:     ans.AfterCheck,
		}
		if reveal {
			graded := ans.Graded()
			dto.CorrectChoice = graded.CorrectChoice
			dto.IsCorrect = graded.IsCorrect
			dto.Explanation = graded.Explanation
		}
		dtos[i] = dto
	}

	checked := a.CheckedLater.Data()
	if checked == nil {
		checked = []int{}
	}

	remaining := int64(0)
	if !a.Submitted() && a.ExpiresAt.After(now) {
		remaining = int64(a.ExpiresAt.Sub(now).Seconds())
	}

	dto := AttemptDTO{
		QuizSessionID:    a.QuizSessionID,
		GroupID:          a.GroupID,
		Answers:          dtos,
		CheckedLater:     checked,
		TotalCount:       a.TotalCount,
		StartedAt:        a.StartedAt,
		ExpiresAt:        a.ExpiresAt,
		SubmittedAt:      a.SubmittedAt,
		RemainingSeconds: remaining,
	}
	if reveal {
		correct := a.CorrectCount()
		dto.CorrectCount = &correct
	}
	return dto
}

// AttemptSummary is one row of a user's score history.
type AttemptSummary struct {
	QuizSessionID string     `json:"quizSessionId"`
	GroupID       string     `json:"groupId"`
	CorrectCount  int        `json:"correctCount"`
	TotalCount    int        `json:"totalCount"`
	StartedAt     time.Time  `json:"startedAt"`
	SubmittedAt   *time.Time `json:"submittedAt"`
}

func (a Attempt) Summary() AttemptSummary {
	return AttemptSummary{
		QuizSessionID: a.QuizSessionID,
		GroupID:       a.GroupID,
		CorrectCount:  a.CorrectCount(),
		TotalCount:    a.TotalCount,
		StartedAt:     a.StartedAt,
		SubmittedAt:   a.SubmittedAt,
	}
}
