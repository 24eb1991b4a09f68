package models

import "time"

// AnswerInput is one submitted answer in a quiz validation request.
type AnswerInput struct {
	QuestionID string `json:"question_id"`
	UserAnswer string `json:"user_answer"`
}

type QuizCreateRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Text      string `json:"text,omitempty"`
}

type QuizValidateRequest struct {
	SessionID          string        `json:"session_id"`
	Answers            []AnswerInput `json:"answers"`
	ReadingTimeSeconds *int          `json:"reading_time_seconds,omitempty"`
}

type QuizOutput struct {
	SessionID string     `json:"session_id"`
	Questions []Question `json:"questions"`
}

type QuizValidateOutput struct {
	SessionID    string             `json:"session_id"`
	OverallScore float64            `json:"overall_score"`
	Results      []QuestionFeedback `json:"results"`
}

type SessionCreateRequest struct {
	Topic string `json:"topic"`
}

// SessionOutput is the client-facing rendering of a session.
type SessionOutput struct {
	ID                 string   `json:"id"`
	Topic              string   `json:"topic,omitempty"`
	Text               string   `json:"text"`
	Words              []string `json:"words"`
	WordCount          int      `json:"word_count"`
	ReadingTimeSeconds *int     `json:"reading_time_seconds,omitempty"`
	WPM                *float64 `json:"wpm,omitempty"`
	QuizScore          *float64 `json:"quiz_score,omitempty"`
	QuizTaken          bool     `json:"quiz_taken"`
}

func (s *Session) ToOutput() SessionOutput {
	return SessionOutput{
		ID:                 s.ID,
		Topic:              s.Topic,
		Text:               s.Text,
		Words:              s.Words,
		WordCount:          s.WordCount,
		ReadingTimeSeconds: s.ReadingTimeSeconds,
		WPM:                s.WPM,
		QuizScore:          s.QuizScore,
		QuizTaken:          s.QuizTaken,
	}
}

type AssistantRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

type AssistantResponse struct {
	Response string `json:"response"`
}

// SessionStatDetail is the per-session entry in a stats report.
type SessionStatDetail struct {
	SessionID                          string    `json:"session_id"`
	TextSnippet                        string    `json:"text_snippet"`
	WordCount                          int       `json:"word_count"`
	ReadingTimeSeconds                 *int      `json:"reading_time_seconds,omitempty"`
	WPM                                *float64  `json:"wpm,omitempty"`
	QuizTaken                          bool      `json:"quiz_taken"`
	QuizScore                          *float64  `json:"quiz_score,omitempty"`
	AITextDifficulty                   string    `json:"ai_text_difficulty"`
	AIEstimatedIdealReadingTimeSeconds *int      `json:"ai_estimated_ideal_reading_time_seconds,omitempty"`
	CreatedAt                          time.Time `json:"created_at"`
	CreatedAtLocal                     time.Time `json:"created_at_local"`
}

// OverallStats aggregates a user's whole reading history.
type OverallStats struct {
	TotalSessionsRead       int      `json:"total_sessions_read"`
	TotalReadingTimeSeconds int      `json:"total_reading_time_seconds"`
	TotalWordsRead          int      `json:"total_words_read"`
	AverageWPM              *float64 `json:"average_wpm,omitempty"`
	TotalQuizzesTaken       int      `json:"total_quizzes_taken"`
	AverageQuizScore        *float64 `json:"average_quiz_score,omitempty"`

	DeltaWPMVsPrevious           *float64 `json:"delta_wpm_vs_previous,omitempty"`
	DeltaComprehensionVsPrevious *float64 `json:"delta_comprehension_vs_previous,omitempty"`
	DeltaReadingTimeVsPrevious   *float64 `json:"delta_reading_time_vs_previous,omitempty"`
	WPMTrend                     *string  `json:"wpm_trend,omitempty"`
	ComprehensionTrend           *string  `json:"comprehension_trend,omitempty"`
	ReadingProgressPercent       *float64 `json:"reading_progress_percent,omitempty"`
}

// StatsReport is the full response of the stats aggregator.
type StatsReport struct {
	UserID         string              `json:"user_id"`
	OverallStats   OverallStats        `json:"overall_stats"`
	RecentSessions []SessionStatDetail `json:"recent_sessions_stats"`
}
