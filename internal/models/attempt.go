// backend/internal/models/attempt.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Answer is one presented question inside an attempt. Choices is the shuffled order
// shown to the player; the nullable fields stay nil until the player acts.
type Answer struct {
	QuestionID     string   `json:"questionId"`
	QuestionText   string   `json:"questionText"`
	Choices        []string `json:"choices"`
	CorrectChoice  string   `json:"correctChoice"`
	SelectedChoice *string  `json:"selectedChoice"`
	IsCorrect      *bool    `json:"isCorrect"`
	Explanation    string   `json:"explanation"`
	AfterCheck     *bool    `json:"afterCheck"`
}

// Attempt is one run of a user through a group's questions. The table keeps the
// historical "scores" name.
type Attempt struct {
	QuizSessionID string                       `json:"quizSessionId" gorm:"primaryKey;size:36"`
	UserID        string                       `json:"userId" gorm:"size:36;index;not null"`
	GroupID       string                       `json:"groupId" gorm:"size:36;not null"`
	Answers       datatypes.JSONType[[]Answer] `json:"answers"`
	CheckedLater  datatypes.JSONType[[]int]    `json:"checkedLater"`
	TotalCount    int                          `json:"totalCount"`
	StartedAt     time.Time                    `json:"startedAt"`
	ExpiresAt     time.Time                    `json:"expiresAt" gorm:"index"`
	SubmittedAt   *time.Time                   `json:"submittedAt"`
}

func (Attempt) TableName() string {
	return "scores"
}

func (a Attempt) Submitted() bool {
	return a.SubmittedAt != nil
}

func (a Attempt) Expired(now time.Time) bool {
	return !a.ExpiresAt.After(now)
}

// Resumable reports whether the attempt can still be continued.
func (a Attempt) Resumable(groupID string, now time.Time) bool {
	return a.GroupID == groupID && !a.Submitted() && !a.Expired(now)
}
