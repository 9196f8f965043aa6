// backend/internal/models/quiz.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	DefaultQuestionCount    = 10
	DefaultTimeLimitMinutes = 60

	QuestionTypeManual = "manual"
	QuestionTypeAuto   = "auto"

	QuestionStatusApproved = "approved"
	QuestionStatusPending  = "pending"
)

type QuizGroup struct {
	GroupID          string    `json:"groupId" gorm:"primaryKey;size:36"`
	Name             string    `json:"name" gorm:"not null"`
	QuestionCount    int       `json:"questionCount"`
	TimeLimitMinutes int       `json:"timeLimitMinutes"`
	CreatedAt        time.Time `json:"createdAt"`
	CreatedBy        string    `json:"createdBy"`
}

func (QuizGroup) TableName() string {
	return "quiz_groups"
}

// EffectiveQuestionCount falls back to the default when the group never set one.
func (g QuizGroup) EffectiveQuestionCount() int {
	if g.QuestionCount <= 0 {
		return DefaultQuestionCount
	}
	return g.QuestionCount
}

func (g QuizGroup) EffectiveTimeLimit() time.Duration {
	minutes := g.TimeLimitMinutes
	if minutes <= 0 {
		minutes = DefaultTimeLimitMinutes
	}
	return time.Duration(minutes) * time.Minute
}

type Question struct {
	QuestionID       string                       `json:"questionId" gorm:"primaryKey;size:36"`
	GroupID          string                       `json:"groupId" gorm:"size:36;index;not null"`
	Type             string                       `json:"type" gorm:"size:16;not null"`
	QuestionText     string                       `json:"questionText" gorm:"not null"`
	CorrectChoice    string                       `json:"correctChoice" gorm:"not null"`
	IncorrectChoices datatypes.JSONType[[]string] `json:"incorrectChoices"`
	Explanation      string                       `json:"explanation"`
	Status           string                       `json:"status" gorm:"size:16;index"`
	CreatedAt        time.Time                    `json:"createdAt"`
	CreatedBy        string                       `json:"createdBy"`
}

func (Question) TableName() string {
	return "questions"
}

type Resource struct {
	ResourceID string    `json:"resourceId" gorm:"primaryKey;size:36"`
	GroupID    string    `json:"groupId" gorm:"size:36;index;not null"`
	URL        string    `json:"url" gorm:"not null"`
	Title      string    `json:"title"`
	ImgSrc     string    `json:"imgSrc"`
	CreatedAt  time.Time `json:"createdAt"`
	CreatedBy  string    `json:"createdBy"`
}

func (Resource) TableName() string {
	return "resources"
}

// LeaderboardEntry is one row of a group's best-score board.
type LeaderboardEntry struct {
	AccountName string `json:"accountName"`
	Score       int    `json:"score"`
}
