package stats

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reading-system/internal/models"
)

type fakeSessionStore struct {
	sessions []models.Session
	err      error
}

func (f *fakeSessionStore) ListByUser(userID string) ([]models.Session, error) {
	return f.sessions, f.err
}

type fakeAttemptStore struct {
	attempts []models.QuizAttempt
}

func (f *fakeAttemptStore) ListByUser(userID string) ([]models.QuizAttempt, error) {
	return f.attempts, nil
}

type fakeStatsCache struct {
	reports map[string]*models.StatsReport
	sets    int
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{reports: map[string]*models.StatsReport{}}
}

func (f *fakeStatsCache) GetStats(_ context.Context, userID string) (*models.StatsReport, error) {
	if report, ok := f.reports[userID]; ok {
		return report, nil
	}
	return nil, errors.New("cache miss")
}

func (f *fakeStatsCache) SetStats(_ context.Context, userID string, report *models.StatsReport) error {
	f.reports[userID] = report
	f.sets++
	return nil
}

func newTestService(sessions []models.Session, attempts []models.QuizAttempt, cache Cache) *Service {
	svc := NewService(
		&fakeSessionStore{sessions: sessions},
		&fakeAttemptStore{attempts: attempts},
		cache,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestGetUserStatsComputesAndCaches(t *testing.T) {
	session := makeSession("s1", daysAgo(1), 120)
	session.ReadingTimeSeconds = intPtr(60)
	cache := newFakeStatsCache()

	svc := newTestService([]models.Session{session}, nil, cache)

	report, err := svc.GetUserStats(context.Background(), "user-1", 0)
	require.NoError(t, err)
	require.NotNil(t, report.OverallStats.AverageWPM)
	assert.InDelta(t, 120.0, *report.OverallStats.AverageWPM, 0.001)
	assert.Equal(t, 1, cache.sets)

	// Second call with no intervening writes serves the cached copy and
	// is identical.
	again, err := svc.GetUserStats(context.Background(), "user-1", 0)
	require.NoError(t, err)
	assert.Equal(t, report, again)
	assert.Equal(t, 1, cache.sets)
}

func TestGetUserStatsWorksWithoutCache(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	report, err := svc.GetUserStats(context.Background(), "user-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, report.OverallStats.TotalSessionsRead)
	assert.Nil(t, report.OverallStats.AverageWPM)
}

func TestGetUserStatsPropagatesStoreError(t *testing.T) {
	svc := newTestService(nil, nil, nil)
	svc.sessions = &fakeSessionStore{err: errors.New("db down")}

	_, err := svc.GetUserStats(context.Background(), "user-1", 0)
	assert.Error(t, err)
}
