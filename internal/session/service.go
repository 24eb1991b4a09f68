package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"reading-system/internal/apperr"
	"reading-system/internal/models"
	"reading-system/pkg/llm"
)

// Store is the session persistence capability.
type Store interface {
	Get(id string) (*models.Session, error)
	ListByUser(userID string) ([]models.Session, error)
	Insert(session *models.Session) error
	Save(session *models.Session) error
}

// Cache is the optional cache-aside layer for session reads and stats
// invalidation.
type Cache interface {
	GetSession(ctx context.Context, id string) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	InvalidateSession(ctx context.Context, id string) error
	InvalidateStats(ctx context.Context, userID string) error
}

type Service struct {
	store  Store
	llm    llm.Client
	cache  Cache
	logger *slog.Logger
}

func NewService(store Store, client llm.Client, cache Cache, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		llm:    client,
		cache:  cache,
		logger: logger,
	}
}

// CreateFromTopic generates a reading passage for the topic, runs the
// AI parameter assessment on it and persists the resulting session.
// Assessment failures degrade to unknown parameters; generation failures
// fail the whole operation.
func (s *Service) CreateFromTopic(ctx context.Context, userID, topic string) (*models.Session, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, &apperr.ValidationError{Msg: "topic must not be empty"}
	}

	text, err := s.llm.Complete(ctx, passagePrompt(topic))
	if err != nil {
		return nil, &apperr.GenerationError{Op: "passage generation", Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &apperr.GenerationError{Op: "passage generation", Err: fmt.Errorf("empty passage")}
	}

	session := &models.Session{
		UserID: userID,
		Topic:  topic,
	}
	session.SetText(text)

	idealTime, difficulty := s.assessTextParameters(ctx, text)
	session.AIEstimatedIdealReadingTimeSeconds = idealTime
	session.AITextDifficulty = difficulty

	if err := s.store.Insert(session); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, session)

	s.logger.Info("session created", "session_id", session.ID, "user_id", userID,
		"word_count", session.WordCount, "difficulty", difficulty)
	return session, nil
}

// CreateFromText persists a session around caller-supplied text, used
// when a quiz is requested for raw text without an existing session.
func (s *Service) CreateFromText(ctx context.Context, userID, text string) (*models.Session, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &apperr.ValidationError{Msg: "text must not be empty"}
	}

	session := &models.Session{UserID: userID}
	session.SetText(text)

	idealTime, difficulty := s.assessTextParameters(ctx, text)
	session.AIEstimatedIdealReadingTimeSeconds = idealTime
	session.AITextDifficulty = difficulty

	if err := s.store.Insert(session); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, session)

	return session, nil
}

// Get returns the session if it is live and owned by the caller.
func (s *Service) Get(ctx context.Context, userID, id string) (*models.Session, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSession(ctx, id); err == nil {
			return s.authorize(cached, userID)
		}
	}

	session, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetSession(ctx, session); err != nil {
			s.logger.Warn("session cache write failed", "session_id", id, "error", err)
		}
	}
	return s.authorize(session, userID)
}

func (s *Service) authorize(session *models.Session, userID string) (*models.Session, error) {
	if session.Deleted {
		return nil, &apperr.NotFoundError{Resource: "session", ID: session.ID}
	}
	if session.UserID != userID {
		return nil, &apperr.AccessDeniedError{Resource: "session"}
	}
	return session, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]models.Session, error) {
	return s.store.ListByUser(userID)
}

// Delete soft-deletes a session. The record stays in the store and its
// attempts remain untouched.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	session, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if session.Deleted {
		return &apperr.NotFoundError{Resource: "session", ID: id}
	}
	if session.UserID != userID {
		return &apperr.AccessDeniedError{Resource: "session"}
	}

	session.Deleted = true
	if err := s.store.Save(session); err != nil {
		return err
	}
	s.afterWrite(ctx, session)

	s.logger.Info("session deleted", "session_id", id, "user_id", userID)
	return nil
}

func (s *Service) afterWrite(ctx context.Context, session *models.Session) {
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

func passagePrompt(topic string) string {
	var sb strings.Builder
	sb.WriteString("Write an informative, clearly structured passage about the following topic, ")
	sb.WriteString("aimed at readers between 15 and 20 years old. ")
	sb.WriteString("Use plain language and at most 3 paragraphs. ")
	sb.WriteString("Return only the passage text, no headings or commentary.\n\nTopic: ")
	sb.WriteString(topic)
	return sb.String()
}
