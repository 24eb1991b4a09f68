package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reading-system/internal/models"
)

var testNow = time.Date(2026, 1, 30, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func daysAgo(n int) time.Time     { return testNow.AddDate(0, 0, -n) }

func makeSession(id string, createdAt time.Time, wordCount int) models.Session {
	return models.Session{
		ID:               id,
		UserID:           "user-1",
		Text:             "some passage text",
		WordCount:        wordCount,
		CreatedAt:        createdAt,
		AITextDifficulty: models.DifficultyUnknown,
	}
}

func TestAggregateNoSessions(t *testing.T) {
	report := Aggregate("user-1", nil, nil, testNow, DefaultRecentLimit, "UTC")

	assert.Equal(t, "user-1", report.UserID)
	assert.Equal(t, 0, report.OverallStats.TotalSessionsRead)
	assert.Equal(t, 0, report.OverallStats.TotalReadingTimeSeconds)
	assert.Equal(t, 0, report.OverallStats.TotalWordsRead)
	assert.Nil(t, report.OverallStats.AverageWPM)
	assert.Equal(t, 0, report.OverallStats.TotalQuizzesTaken)
	assert.Nil(t, report.OverallStats.AverageQuizScore)
	assert.Nil(t, report.OverallStats.ReadingProgressPercent)
	assert.Nil(t, report.OverallStats.WPMTrend)
	assert.Empty(t, report.RecentSessions)
}

func TestAggregateTotalsWithFallbackTimes(t *testing.T) {
	s1 := makeSession("s1", daysAgo(1), 300)
	s1.ReadingTimeSeconds = intPtr(120) // actual time wins
	s1.AIEstimatedIdealReadingTimeSeconds = intPtr(999)

	s2 := makeSession("s2", daysAgo(2), 200)
	s2.AIEstimatedIdealReadingTimeSeconds = intPtr(80) // estimate as fallback

	s3 := makeSession("s3", daysAgo(3), 100) // no timing signal at all

	report := Aggregate("user-1", []models.Session{s1, s2, s3}, nil, testNow, DefaultRecentLimit, "UTC")

	assert.Equal(t, 3, report.OverallStats.TotalSessionsRead)
	assert.Equal(t, 200, report.OverallStats.TotalReadingTimeSeconds)
	assert.Equal(t, 600, report.OverallStats.TotalWordsRead)
	require.NotNil(t, report.OverallStats.AverageWPM)
	assert.InDelta(t, 180.0, *report.OverallStats.AverageWPM, 0.001)
}

func TestAggregateBestScoreSemantics(t *testing.T) {
	session := makeSession("s1", daysAgo(1), 100)
	attempts := []models.QuizAttempt{
		{ID: "a1", SessionID: "s1", UserID: "user-1", OverallScore: 60},
		{ID: "a2", SessionID: "s1", UserID: "user-1", OverallScore: 90},
	}

	report := Aggregate("user-1", []models.Session{session}, attempts, testNow, DefaultRecentLimit, "UTC")

	assert.Equal(t, 1, report.OverallStats.TotalQuizzesTaken)
	require.NotNil(t, report.OverallStats.AverageQuizScore)
	assert.InDelta(t, 90.0, *report.OverallStats.AverageQuizScore, 0.001)

	require.Len(t, report.RecentSessions, 1)
	detail := report.RecentSessions[0]
	assert.True(t, detail.QuizTaken)
	require.NotNil(t, detail.QuizScore)
	assert.InDelta(t, 90.0, *detail.QuizScore, 0.001)
}

func TestAggregateAverageQuizScoreAcrossSessions(t *testing.T) {
	sessions := []models.Session{
		makeSession("s1", daysAgo(1), 100),
		makeSession("s2", daysAgo(2), 100),
	}
	attempts := []models.QuizAttempt{
		{ID: "a1", SessionID: "s1", OverallScore: 40},
		{ID: "a2", SessionID: "s1", OverallScore: 80},
		{ID: "a3", SessionID: "s2", OverallScore: 60},
	}

	report := Aggregate("user-1", sessions, attempts, testNow, DefaultRecentLimit, "UTC")

	assert.Equal(t, 2, report.OverallStats.TotalQuizzesTaken)
	require.NotNil(t, report.OverallStats.AverageQuizScore)
	assert.InDelta(t, 70.0, *report.OverallStats.AverageQuizScore, 0.001) // mean(80, 60)
}

func TestAggregateIdempotent(t *testing.T) {
	sessions := []models.Session{
		makeSession("s1", daysAgo(1), 150),
		makeSession("s2", daysAgo(40), 250),
	}
	sessions[0].ReadingTimeSeconds = intPtr(60)
	sessions[1].ReadingTimeSeconds = intPtr(120)
	attempts := []models.QuizAttempt{
		{ID: "a1", SessionID: "s1", OverallScore: 75},
	}

	first := Aggregate("user-1", sessions, attempts, testNow, DefaultRecentLimit, "UTC")
	second := Aggregate("user-1", sessions, attempts, testNow, DefaultRecentLimit, "UTC")

	assert.Equal(t, first, second)
}

func TestAggregatePeriodComparison(t *testing.T) {
	curr := makeSession("curr", daysAgo(5), 600)
	curr.ReadingTimeSeconds = intPtr(300) // 120 wpm
	curr.QuizScore = floatPtr(80)

	prev := makeSession("prev", daysAgo(35), 600)
	prev.ReadingTimeSeconds = intPtr(400) // 90 wpm

	attempts := []models.QuizAttempt{
		{ID: "a1", SessionID: "prev", OverallScore: 50},
		{ID: "a2", SessionID: "prev", OverallScore: 60},
	}

	report := Aggregate("user-1", []models.Session{curr, prev}, attempts, testNow, DefaultRecentLimit, "UTC")
	overall := report.OverallStats

	require.NotNil(t, overall.DeltaWPMVsPrevious)
	assert.InDelta(t, 33.33, *overall.DeltaWPMVsPrevious, 0.001)
	require.NotNil(t, overall.WPMTrend)
	assert.Equal(t, TrendUp, *overall.WPMTrend)

	// Current comprehension from the cached score, previous from the
	// best attempt.
	require.NotNil(t, overall.DeltaComprehensionVsPrevious)
	assert.InDelta(t, 33.33, *overall.DeltaComprehensionVsPrevious, 0.001)
	require.NotNil(t, overall.ComprehensionTrend)
	assert.Equal(t, TrendUp, *overall.ComprehensionTrend)

	require.NotNil(t, overall.DeltaReadingTimeVsPrevious)
	assert.InDelta(t, -25.0, *overall.DeltaReadingTimeVsPrevious, 0.001)
}

func TestAggregateDeltaNilWhenPreviousEmpty(t *testing.T) {
	curr := makeSession("curr", daysAgo(5), 600)
	curr.ReadingTimeSeconds = intPtr(300)

	report := Aggregate("user-1", []models.Session{curr}, nil, testNow, DefaultRecentLimit, "UTC")
	overall := report.OverallStats

	assert.Nil(t, overall.DeltaWPMVsPrevious)
	assert.Nil(t, overall.WPMTrend)
	assert.Nil(t, overall.DeltaComprehensionVsPrevious)
	assert.Nil(t, overall.ComprehensionTrend)
	// Previous reading time is exactly zero: percent-of-zero is undefined.
	assert.Nil(t, overall.DeltaReadingTimeVsPrevious)
}

func TestAggregateStableTrend(t *testing.T) {
	curr := makeSession("curr", daysAgo(5), 300)
	curr.ReadingTimeSeconds = intPtr(180) // 100 wpm

	prev := makeSession("prev", daysAgo(35), 306)
	prev.ReadingTimeSeconds = intPtr(180) // 102 wpm, within the 5% band

	report := Aggregate("user-1", []models.Session{curr, prev}, nil, testNow, DefaultRecentLimit, "UTC")

	require.NotNil(t, report.OverallStats.WPMTrend)
	assert.Equal(t, TrendStable, *report.OverallStats.WPMTrend)
}

func TestAggregateProgressRequiresTenSessions(t *testing.T) {
	var sessions []models.Session
	for i := 0; i < 9; i++ {
		s := makeSession("s", daysAgo(i+1), 100)
		s.WPM = floatPtr(100)
		sessions = append(sessions, s)
	}

	report := Aggregate("user-1", sessions, nil, testNow, DefaultRecentLimit, "UTC")
	assert.Nil(t, report.OverallStats.ReadingProgressPercent)
}

func TestAggregateProgressImprovingWPM(t *testing.T) {
	// Ten sessions, oldest five at 100 WPM, newest five at 150 WPM.
	var sessions []models.Session
	for i := 0; i < 10; i++ {
		s := makeSession("s", daysAgo(100-i), 100)
		if i < 5 {
			s.WPM = floatPtr(100)
		} else {
			s.WPM = floatPtr(150)
		}
		sessions = append(sessions, s)
	}

	report := Aggregate("user-1", sessions, nil, testNow, DefaultRecentLimit, "UTC")

	require.NotNil(t, report.OverallStats.ReadingProgressPercent)
	assert.InDelta(t, 50.0, *report.OverallStats.ReadingProgressPercent, 0.001)
}

func TestAggregateProgressWPMPriorityChain(t *testing.T) {
	var sessions []models.Session
	for i := 0; i < 10; i++ {
		s := makeSession("s", daysAgo(100-i), 120)
		switch {
		case i < 5:
			// Derived from actual reading time: 120 words / 72s = 100 wpm.
			s.ReadingTimeSeconds = intPtr(72)
		default:
			// Derived from the AI estimate: 120 words / 48s = 150 wpm.
			s.AIEstimatedIdealReadingTimeSeconds = intPtr(48)
		}
		sessions = append(sessions, s)
	}

	report := Aggregate("user-1", sessions, nil, testNow, DefaultRecentLimit, "UTC")

	require.NotNil(t, report.OverallStats.ReadingProgressPercent)
	assert.InDelta(t, 50.0, *report.OverallStats.ReadingProgressPercent, 0.001)
}

func TestAggregateProgressNilWithoutUsableWPMs(t *testing.T) {
	var sessions []models.Session
	for i := 0; i < 10; i++ {
		sessions = append(sessions, makeSession("s", daysAgo(100-i), 0))
	}

	report := Aggregate("user-1", sessions, nil, testNow, DefaultRecentLimit, "UTC")
	assert.Nil(t, report.OverallStats.ReadingProgressPercent)
}

func TestRecentDetailsSnippetAndOrdering(t *testing.T) {
	longText := strings.Repeat("abcde ", 20) // 120 chars
	newest := makeSession("newest", daysAgo(1), 20)
	newest.Text = longText
	oldest := makeSession("oldest", daysAgo(2), 20)
	oldest.Text = "short text"

	report := Aggregate("user-1", []models.Session{oldest, newest}, nil, testNow, 1, "UTC")

	require.Len(t, report.RecentSessions, 1)
	detail := report.RecentSessions[0]
	assert.Equal(t, "newest", detail.SessionID)
	assert.True(t, strings.HasSuffix(detail.TextSnippet, "..."))
	assert.Len(t, detail.TextSnippet, snippetRunes+3)
}

func TestRecentDetailsCachedScorePrecedence(t *testing.T) {
	session := makeSession("s1", daysAgo(1), 100)
	session.QuizScore = floatPtr(55) // cache wins over the attempt-derived 90
	session.QuizTaken = true

	attempts := []models.QuizAttempt{
		{ID: "a1", SessionID: "s1", OverallScore: 90},
	}

	report := Aggregate("user-1", []models.Session{session}, attempts, testNow, DefaultRecentLimit, "UTC")

	require.Len(t, report.RecentSessions, 1)
	require.NotNil(t, report.RecentSessions[0].QuizScore)
	assert.InDelta(t, 55.0, *report.RecentSessions[0].QuizScore, 0.001)
}

func TestRecentDetailsLocalTimeConversion(t *testing.T) {
	session := makeSession("s1", daysAgo(1), 100)

	report := Aggregate("user-1", []models.Session{session}, nil, testNow, DefaultRecentLimit, "America/Lima")

	require.Len(t, report.RecentSessions, 1)
	detail := report.RecentSessions[0]
	assert.True(t, detail.CreatedAt.Equal(detail.CreatedAtLocal))
	assert.Equal(t, "-05", detail.CreatedAtLocal.Format("-07"))
}
