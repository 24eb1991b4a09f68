package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Text difficulty labels assigned by the AI assessment.
const (
	DifficultyEasy    = "easy"
	DifficultyMedium  = "medium"
	DifficultyHard    = "hard"
	DifficultyUnknown = "unknown"
)

// Session is one reading passage plus its metadata and quiz state,
// owned by a single user. Sessions are soft-deleted: Deleted hides them
// from listings and statistics but they remain fetchable by id.
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"user_id" gorm:"index;size:36;not null"`
	Topic     string    `json:"topic"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Words     []string  `json:"words" gorm:"serializer:json"`
	Deleted   bool      `json:"deleted" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`

	QuizQuestions []Question `json:"quiz_questions,omitempty" gorm:"serializer:json"`
	WordCount     int        `json:"word_count"`

	ReadingTimeSeconds *int     `json:"reading_time_seconds,omitempty"`
	WPM                *float64 `json:"wpm,omitempty"`
	QuizScore          *float64 `json:"quiz_score,omitempty"`
	QuizTaken          bool     `json:"quiz_taken"`

	AIEstimatedIdealReadingTimeSeconds *int   `json:"ai_estimated_ideal_reading_time_seconds,omitempty"`
	AITextDifficulty                   string `json:"ai_text_difficulty" gorm:"default:unknown"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.AITextDifficulty == "" {
		s.AITextDifficulty = DifficultyUnknown
	}
	return nil
}

// SetText assigns the passage text and recomputes the derived Words and
// WordCount fields. All text assignments must go through here so the
// word count invariant holds.
func (s *Session) SetText(text string) {
	s.Text = text
	s.Words = strings.Fields(text)
	s.WordCount = len(s.Words)
}
