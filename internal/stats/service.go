package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"reading-system/internal/apperr"
	"reading-system/internal/models"
	"reading-system/pkg/timeutil"
)

// DefaultRecentLimit bounds the per-session detail list in a report.
const DefaultRecentLimit = 5

// SessionStore supplies a user's live sessions, newest first.
type SessionStore interface {
	ListByUser(userID string) ([]models.Session, error)
}

// AttemptStore supplies a user's full attempt history, unordered.
type AttemptStore interface {
	ListByUser(userID string) ([]models.QuizAttempt, error)
}

// Cache holds computed reports between writes.
type Cache interface {
	GetStats(ctx context.Context, userID string) (*models.StatsReport, error)
	SetStats(ctx context.Context, userID string, report *models.StatsReport) error
}

type Service struct {
	sessions SessionStore
	attempts AttemptStore
	cache    Cache
	logger   *slog.Logger
	zoneName string
	now      func() time.Time
}

func NewService(sessions SessionStore, attempts AttemptStore, cache Cache, logger *slog.Logger) *Service {
	return &Service{
		sessions: sessions,
		attempts: attempts,
		cache:    cache,
		logger:   logger,
		zoneName: timeutil.DefaultZone,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetUserStats assembles the user's stats report, serving a cached copy
// when one survives since the last write. An unexpected fault inside the
// aggregation is logged and surfaced, never swallowed.
func (s *Service) GetUserStats(ctx context.Context, userID string, recentLimit int) (report *models.StatsReport, err error) {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}

	if s.cache != nil {
		if cached, cacheErr := s.cache.GetStats(ctx, userID); cacheErr == nil {
			return cached, nil
		}
	}

	sessions, err := s.sessions.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attempts.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			aggErr := &apperr.AggregationError{Err: fmt.Errorf("%v", r)}
			s.logger.Error("stats aggregation panicked", "user_id", userID, "error", aggErr)
			report, err = nil, aggErr
		}
	}()

	result := Aggregate(userID, sessions, attempts, s.now(), recentLimit, s.zoneName)
	report = &result

	if s.cache != nil {
		if cacheErr := s.cache.SetStats(ctx, userID, report); cacheErr != nil {
			s.logger.Warn("stats cache write failed", "user_id", userID, "error", cacheErr)
		}
	}

	return report, nil
}
