package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question types.
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeOpenEnded      = "open_ended"
)

// Question is a single quiz question stored inline on its session.
// Options is populated for multiple choice only; CorrectAnswer holds the
// exact option string for multiple choice and a model answer for open
// ended questions.
type Question struct {
	ID            string   `json:"id"`
	QuestionText  string   `json:"question_text"`
	QuestionType  string   `json:"question_type"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// QuestionFeedback is the graded outcome for one submitted answer.
type QuestionFeedback struct {
	QuestionID    string `json:"question_id"`
	IsCorrect     bool   `json:"is_correct"`
	Feedback      string `json:"feedback"`
	CorrectAnswer string `json:"correct_answer"`
}

// QuizAttempt is an immutable record of one quiz submission. It back-
// references its session by id only, so deleting a session never touches
// its attempts. Attempts are append-only and never updated.
type QuizAttempt struct {
	ID           string             `json:"id" gorm:"primaryKey;size:36"`
	SessionID    string             `json:"session_id" gorm:"index;size:36;not null"`
	UserID       string             `json:"user_id" gorm:"index;size:36;not null"`
	Results      []QuestionFeedback `json:"results" gorm:"serializer:json"`
	OverallScore float64            `json:"overall_score"`
	AttemptedAt  time.Time          `json:"attempted_at"`
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.AttemptedAt.IsZero() {
		a.AttemptedAt = time.Now().UTC()
	}
	return nil
}
