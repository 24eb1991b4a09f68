package session

import (
	"context"
	"encoding/json"
	"fmt"

	"reading-system/internal/models"
	"reading-system/pkg/llm"
)

type textAssessment struct {
	IdealTimeSeconds *int   `json:"ideal_time_seconds"`
	Difficulty       string `json:"difficulty"`
}

// assessTextParameters asks the model for an ideal reading time and a
// difficulty label. This call is best-effort: any failure degrades to
// (nil, unknown) instead of failing session creation.
func (s *Service) assessTextParameters(ctx context.Context, text string) (*int, string) {
	raw, err := s.llm.Complete(ctx, assessmentPrompt(text))
	if err != nil {
		s.logger.Warn("text assessment call failed", "error", err)
		return nil, models.DifficultyUnknown
	}

	payload, err := llm.ExtractJSON(raw)
	if err != nil {
		s.logger.Warn("text assessment returned no JSON", "error", err)
		return nil, models.DifficultyUnknown
	}

	var assessment textAssessment
	if err := json.Unmarshal([]byte(payload), &assessment); err != nil {
		s.logger.Warn("text assessment unparseable", "error", err)
		return nil, models.DifficultyUnknown
	}

	switch assessment.Difficulty {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		assessment.Difficulty = models.DifficultyUnknown
	}
	if assessment.IdealTimeSeconds != nil && *assessment.IdealTimeSeconds <= 0 {
		assessment.IdealTimeSeconds = nil
	}

	return assessment.IdealTimeSeconds, assessment.Difficulty
}

func assessmentPrompt(text string) string {
	return fmt.Sprintf(`Assess the following text for a speed-reading exercise.

Return a JSON object with exactly two keys:
- "ideal_time_seconds": an integer, the ideal reading time in seconds for an average reader.
- "difficulty": one of "easy", "medium" or "hard".

Output ONLY the JSON object.

Text:
---
%s
---`, text)
}
