package quiz

import (
	"context"
	"log/slog"
	"math"

	"reading-system/internal/apperr"
	"reading-system/internal/models"
	"reading-system/pkg/llm"
)

// SessionStore is the slice of the session capability the scorer needs.
type SessionStore interface {
	Get(id string) (*models.Session, error)
	Save(session *models.Session) error
}

// AttemptStore is the append-only attempt capability.
type AttemptStore interface {
	Insert(attempt *models.QuizAttempt) error
}

// Cache invalidation hooks for writes made by the scorer.
type Cache interface {
	InvalidateSession(ctx context.Context, id string) error
	InvalidateStats(ctx context.Context, userID string) error
}

type Service struct {
	sessions  SessionStore
	attempts  AttemptStore
	generator *Generator
	llm       llm.Client
	cache     Cache
	logger    *slog.Logger
}

func NewService(sessions SessionStore, attempts AttemptStore, generator *Generator, client llm.Client, cache Cache, logger *slog.Logger) *Service {
	return &Service{
		sessions:  sessions,
		attempts:  attempts,
		generator: generator,
		llm:       client,
		cache:     cache,
		logger:    logger,
	}
}

// CreateOrUpdateQuiz regenerates the quiz for a session. Existing
// questions are always overwritten; concurrent calls race and the last
// writer wins.
func (s *Service) CreateOrUpdateQuiz(ctx context.Context, userID, sessionID string) (*models.Session, error) {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Text == "" {
		return nil, &apperr.ValidationError{Msg: "session has no text content"}
	}

	questions, err := s.generator.GenerateQuestions(ctx, session.Text, DefaultQuestionCount, DefaultOptionCount)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []models.Question{}
	}

	session.QuizQuestions = questions
	if err := s.sessions.Save(session); err != nil {
		return nil, err
	}
	s.invalidate(ctx, session)

	s.logger.Info("quiz generated", "session_id", sessionID, "questions", len(questions))
	return session, nil
}

// ValidateAnswers grades a submission against the session's stored
// questions, records an immutable attempt and refreshes the session's
// cached quiz fields. The attempt insert and the session update are not
// one transaction; a crash in between leaves a durable attempt and a
// stale session cache, which the stats aggregator tolerates.
func (s *Service) ValidateAnswers(ctx context.Context, userID string, req models.QuizValidateRequest) (*models.QuizAttempt, error) {
	session, err := s.ownedSession(userID, req.SessionID)
	if err != nil {
		return nil, err
	}
	if len(session.QuizQuestions) == 0 {
		return nil, &apperr.ValidationError{Msg: "no quiz questions found for this session"}
	}
	if req.ReadingTimeSeconds != nil && *req.ReadingTimeSeconds <= 0 {
		return nil, &apperr.ValidationError{Msg: "reading_time_seconds must be positive"}
	}

	questionsByID := make(map[string]models.Question, len(session.QuizQuestions))
	for _, q := range session.QuizQuestions {
		questionsByID[q.ID] = q
	}

	results := make([]models.QuestionFeedback, 0, len(req.Answers))
	correctCount := 0

	for _, answer := range req.Answers {
		question, ok := questionsByID[answer.QuestionID]
		if !ok {
			s.logger.Warn("answer references unknown question",
				"session_id", req.SessionID, "question_id", answer.QuestionID)
			results = append(results, models.QuestionFeedback{
				QuestionID:    answer.QuestionID,
				IsCorrect:     false,
				Feedback:      "Question not found for this attempt.",
				CorrectAnswer: "N/A",
			})
			continue
		}

		var (
			isCorrect bool
			feedback  string
		)
		switch question.QuestionType {
		case models.QuestionTypeMultipleChoice:
			// Exact string equality, no trimming or normalization.
			isCorrect = answer.UserAnswer == question.CorrectAnswer
			if isCorrect {
				feedback = "Correct!"
			} else {
				feedback = "Incorrect."
			}
			if question.Explanation != "" {
				feedback += " " + question.Explanation
			}
		case models.QuestionTypeOpenEnded:
			isCorrect, feedback, err = s.evaluateOpenEnded(ctx, question, answer.UserAnswer)
			if err != nil {
				return nil, err
			}
		default:
			feedback = "Unknown question type."
		}

		if isCorrect {
			correctCount++
		}
		results = append(results, models.QuestionFeedback{
			QuestionID:    question.ID,
			IsCorrect:     isCorrect,
			Feedback:      feedback,
			CorrectAnswer: question.CorrectAnswer,
		})
	}

	// Unanswered questions count against the score: the denominator is
	// the session's full question set.
	overallScore := round2(100 * float64(correctCount) / float64(len(session.QuizQuestions)))

	attempt := &models.QuizAttempt{
		SessionID:    session.ID,
		UserID:       userID,
		Results:      results,
		OverallScore: overallScore,
	}
	if err := s.attempts.Insert(attempt); err != nil {
		return nil, err
	}

	session.QuizTaken = true
	session.QuizScore = &overallScore
	if req.ReadingTimeSeconds != nil {
		session.ReadingTimeSeconds = req.ReadingTimeSeconds
		wpm := round2(float64(session.WordCount) / float64(*req.ReadingTimeSeconds) * 60)
		session.WPM = &wpm
	}
	if err := s.sessions.Save(session); err != nil {
		return nil, err
	}
	s.invalidate(ctx, session)

	s.logger.Info("quiz attempt recorded", "attempt_id", attempt.ID,
		"session_id", session.ID, "score", overallScore)
	return attempt, nil
}

func (s *Service) ownedSession(userID, sessionID string) (*models.Session, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Deleted {
		return nil, &apperr.NotFoundError{Resource: "session", ID: sessionID}
	}
	if session.UserID != userID {
		return nil, &apperr.AccessDeniedError{Resource: "session"}
	}
	return session, nil
}

func (s *Service) invalidate(ctx context.Context, session *models.Session) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSession(ctx, session.ID); err != nil {
		s.logger.Warn("session cache invalidation failed", "session_id", session.ID, "error", err)
	}
	if err := s.cache.InvalidateStats(ctx, session.UserID); err != nil {
		s.logger.Warn("stats cache invalidation failed", "user_id", session.UserID, "error", err)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
