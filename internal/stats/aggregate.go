package stats

import (
	"math"
	"sort"
	"time"

	"reading-system/internal/models"
	"reading-system/pkg/timeutil"
)

const (
	periodDays      = 30
	progressMinimum = 10
	snippetRunes    = 75
)

// Trend labels for period-over-period deltas.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// Aggregate computes a user's full stats report from their live
// sessions and their complete attempt history. It is a pure function of
// its inputs: no clock reads, no store access, so the same inputs always
// produce the same report.
//
// Sessions are expected non-deleted; ordering is normalized here so
// callers need not guarantee it.
func Aggregate(userID string, sessions []models.Session, attempts []models.QuizAttempt, now time.Time, recentLimit int, zoneName string) models.StatsReport {
	sessions = sortedNewestFirst(sessions)

	// Representative score per quizzed session: the best attempt. A
	// session's best effort counts, not its latest.
	sessionScores := make(map[string][]float64)
	for _, attempt := range attempts {
		sessionScores[attempt.SessionID] = append(sessionScores[attempt.SessionID], attempt.OverallScore)
	}

	overall := models.OverallStats{
		TotalSessionsRead: len(sessions),
	}
	for i := range sessions {
		overall.TotalReadingTimeSeconds += effectiveReadingTime(&sessions[i])
		overall.TotalWordsRead += sessions[i].WordCount
	}
	overall.AverageWPM = guardedWPM(overall.TotalWordsRead, overall.TotalReadingTimeSeconds)

	overall.TotalQuizzesTaken = len(sessionScores)
	if overall.TotalQuizzesTaken > 0 {
		sum := 0.0
		for _, scores := range sessionScores {
			sum += best(scores)
		}
		avg := round2(sum / float64(overall.TotalQuizzesTaken))
		overall.AverageQuizScore = &avg
	}

	currentStart := now.AddDate(0, 0, -periodDays)
	previousStart := now.AddDate(0, 0, -2*periodDays)

	var current, previous []models.Session
	for _, s := range sessions {
		switch {
		case !s.CreatedAt.Before(currentStart):
			current = append(current, s)
		case !s.CreatedAt.Before(previousStart):
			previous = append(previous, s)
		}
	}

	curr := periodMetrics(current, sessionScores)
	prev := periodMetrics(previous, sessionScores)

	overall.DeltaWPMVsPrevious = delta(curr.wpm, prev.wpm)
	overall.DeltaComprehensionVsPrevious = delta(curr.comprehension, prev.comprehension)
	currTime := float64(curr.readingTime)
	prevTime := float64(prev.readingTime)
	overall.DeltaReadingTimeVsPrevious = delta(&currTime, &prevTime)
	overall.WPMTrend = trend(overall.DeltaWPMVsPrevious)
	overall.ComprehensionTrend = trend(overall.DeltaComprehensionVsPrevious)

	overall.ReadingProgressPercent = readingProgress(sessions)

	return models.StatsReport{
		UserID:         userID,
		OverallStats:   overall,
		RecentSessions: recentDetails(sessions, sessionScores, recentLimit, zoneName),
	}
}

type periodStats struct {
	readingTime   int
	words         int
	wpm           *float64
	comprehension *float64
}

// periodMetrics summarizes one 30-day window. Comprehension averages
// each session's attempt-derived best score, falling back to the cached
// quiz score for sessions without attempts; sessions with no score
// signal at all are left out of the mean.
func periodMetrics(sessions []models.Session, sessionScores map[string][]float64) periodStats {
	var p periodStats
	var scores []float64

	for i := range sessions {
		s := &sessions[i]
		p.readingTime += effectiveReadingTime(s)
		p.words += s.WordCount

		if attemptScores, ok := sessionScores[s.ID]; ok && len(attemptScores) > 0 {
			scores = append(scores, best(attemptScores))
		} else if s.QuizScore != nil {
			scores = append(scores, *s.QuizScore)
		}
	}

	p.wpm = guardedWPM(p.words, p.readingTime)
	if len(scores) > 0 {
		comp := round2(mean(scores))
		p.comprehension = &comp
	}
	return p
}

// readingProgress compares the user's first five sessions against their
// last five, by best-available WPM. Requires at least ten sessions.
func readingProgress(sessions []models.Session) *float64 {
	if len(sessions) < progressMinimum {
		return nil
	}

	oldestFirst := make([]models.Session, len(sessions))
	copy(oldestFirst, sessions)
	sort.SliceStable(oldestFirst, func(i, j int) bool {
		return oldestFirst[i].CreatedAt.Before(oldestFirst[j].CreatedAt)
	})

	collect := func(group []models.Session) []float64 {
		var wpms []float64
		for i := range group {
			if wpm := bestAvailableWPM(&group[i]); wpm != nil {
				wpms = append(wpms, *wpm)
			}
		}
		return wpms
	}

	firstWPMs := collect(oldestFirst[:5])
	lastWPMs := collect(oldestFirst[len(oldestFirst)-5:])
	if len(firstWPMs) == 0 || len(lastWPMs) == 0 {
		return nil
	}

	firstAvg := mean(firstWPMs)
	lastAvg := mean(lastWPMs)
	if firstAvg == 0 {
		return nil
	}

	progress := round2((lastAvg - firstAvg) / firstAvg * 100)
	return &progress
}

func recentDetails(sessions []models.Session, sessionScores map[string][]float64, limit int, zoneName string) []models.SessionStatDetail {
	if limit <= 0 || limit > len(sessions) {
		limit = len(sessions)
	}

	details := make([]models.SessionStatDetail, 0, limit)
	for i := 0; i < limit; i++ {
		s := &sessions[i]

		var bestScore *float64
		scores := sessionScores[s.ID]
		if len(scores) > 0 {
			b := best(scores)
			bestScore = &b
		}

		// The cached quiz score takes precedence; the attempt-derived
		// best fills in when the cache was never written.
		quizScore := s.QuizScore
		if quizScore == nil {
			quizScore = bestScore
		}

		readingTime := s.ReadingTimeSeconds
		if readingTime == nil {
			readingTime = s.AIEstimatedIdealReadingTimeSeconds
		}

		details = append(details, models.SessionStatDetail{
			SessionID:                          s.ID,
			TextSnippet:                        snippet(s.Text),
			WordCount:                          s.WordCount,
			ReadingTimeSeconds:                 readingTime,
			WPM:                                bestAvailableWPM(s),
			QuizTaken:                          s.QuizTaken || len(scores) > 0,
			QuizScore:                          quizScore,
			AITextDifficulty:                   s.AITextDifficulty,
			AIEstimatedIdealReadingTimeSeconds: s.AIEstimatedIdealReadingTimeSeconds,
			CreatedAt:                          s.CreatedAt,
			CreatedAtLocal:                     timeutil.ToLocal(s.CreatedAt, zoneName),
		})
	}
	return details
}

// effectiveReadingTime prefers the client-reported time, falls back to
// the AI estimate and finally to zero.
func effectiveReadingTime(s *models.Session) int {
	if s.ReadingTimeSeconds != nil {
		return *s.ReadingTimeSeconds
	}
	if s.AIEstimatedIdealReadingTimeSeconds != nil {
		return *s.AIEstimatedIdealReadingTimeSeconds
	}
	return 0
}

// bestAvailableWPM derives a session's WPM by priority: the stored
// value, then a computation from actual reading time, then one from the
// AI estimate. Nil when none is available.
func bestAvailableWPM(s *models.Session) *float64 {
	if s.WPM != nil {
		return s.WPM
	}
	if s.ReadingTimeSeconds != nil && *s.ReadingTimeSeconds > 0 && s.WordCount > 0 {
		wpm := round2(float64(s.WordCount) / float64(*s.ReadingTimeSeconds) * 60)
		return &wpm
	}
	if s.AIEstimatedIdealReadingTimeSeconds != nil && *s.AIEstimatedIdealReadingTimeSeconds > 0 && s.WordCount > 0 {
		wpm := round2(float64(s.WordCount) / float64(*s.AIEstimatedIdealReadingTimeSeconds) * 60)
		return &wpm
	}
	return nil
}

// guardedWPM avoids both a division by zero and a misleading zero WPM:
// it reports nothing unless both totals are strictly positive.
func guardedWPM(words, readingTimeSeconds int) *float64 {
	if words <= 0 || readingTimeSeconds <= 0 {
		return nil
	}
	wpm := round2(float64(words) / float64(readingTimeSeconds) * 60)
	return &wpm
}

// delta is the period-over-period percentage change. Nil when either
// side is missing or the previous value is exactly zero.
func delta(curr, prev *float64) *float64 {
	if curr == nil || prev == nil || *prev == 0 {
		return nil
	}
	d := round2((*curr - *prev) / *prev * 100)
	return &d
}

func trend(delta *float64) *string {
	if delta == nil {
		return nil
	}
	label := TrendStable
	switch {
	case *delta > 5:
		label = TrendUp
	case *delta < -5:
		label = TrendDown
	}
	return &label
}

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetRunes {
		return text
	}
	return string(runes[:snippetRunes]) + "..."
}

func sortedNewestFirst(sessions []models.Session) []models.Session {
	sorted := make([]models.Session, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

func best(scores []float64) float64 {
	b := scores[0]
	for _, s := range scores[1:] {
		if s > b {
			b = s
		}
	}
	return b
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
