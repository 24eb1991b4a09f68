package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"reading-system/internal/apperr"
	"reading-system/internal/models"
	"reading-system/pkg/llm"
)

// maxContextChars bounds how much passage text is sent with a query.
const maxContextChars = 8000

// SessionStore is the read-only session capability the assistant needs.
type SessionStore interface {
	Get(id string) (*models.Session, error)
}

// Service answers free-text questions scoped strictly to one session's
// passage text.
type Service struct {
	sessions SessionStore
	llm      llm.Client
	logger   *slog.Logger
}

func NewService(sessions SessionStore, client llm.Client, logger *slog.Logger) *Service {
	return &Service{sessions: sessions, llm: client, logger: logger}
}

// Answer responds to the query using only the session's text as
// context. The model is instructed to decline when the answer is not in
// the passage.
func (s *Service) Answer(ctx context.Context, userID, sessionID, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", &apperr.ValidationError{Msg: "query must not be empty"}
	}

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return "", err
	}
	if session.Deleted {
		return "", &apperr.NotFoundError{Resource: "session", ID: sessionID}
	}
	if session.UserID != userID {
		return "", &apperr.AccessDeniedError{Resource: "session"}
	}
	if strings.TrimSpace(session.Text) == "" {
		return "", &apperr.ValidationError{Msg: "session has no text content for context"}
	}

	response, err := s.llm.Complete(ctx, contextualPrompt(query, truncate(session.Text, maxContextChars)))
	if err != nil {
		return "", &apperr.GenerationError{Op: "assistant query", Err: err}
	}

	return strings.TrimSpace(response), nil
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func contextualPrompt(query, contextText string) string {
	return fmt.Sprintf(`Answer the user's question using ONLY the context below.
If the answer is not contained in the context, say so explicitly and decline to answer; do not use outside knowledge.

Context:
---
%s
---

Question: %s`, contextText, query)
}
