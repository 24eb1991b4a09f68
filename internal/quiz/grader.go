package quiz

import (
	"context"
	"encoding/json"
	"fmt"

	"reading-system/internal/apperr"
	"reading-system/internal/models"
	"reading-system/pkg/llm"
)

// Evaluation tags returned by the rubric grader.
const (
	evalCorrect          = "correct"
	evalPartiallyCorrect = "partially_correct"
	evalIncorrect        = "incorrect"
)

type rubricEvaluation struct {
	Evaluation string `json:"evaluation"`
	Feedback   string `json:"feedback"`
}

// evaluateOpenEnded grades a free-text answer against the question's
// model answer via the text-generation capability. A partially correct
// answer counts as correct toward the score. Any model or parse failure
// is fatal to the enclosing attempt.
func (s *Service) evaluateOpenEnded(ctx context.Context, question models.Question, userAnswer string) (bool, string, error) {
	raw, err := s.llm.Complete(ctx, rubricPrompt(question.QuestionText, question.CorrectAnswer, userAnswer))
	if err != nil {
		return false, "", &apperr.GenerationError{Op: "answer evaluation", Err: err}
	}

	payload, err := llm.ExtractJSON(raw)
	if err != nil {
		return false, "", &apperr.GenerationError{Op: "answer evaluation", Err: err}
	}

	var eval rubricEvaluation
	if err := json.Unmarshal([]byte(payload), &eval); err != nil {
		return false, "", &apperr.GenerationError{Op: "answer evaluation", Err: err}
	}
	if eval.Evaluation == "" || eval.Feedback == "" {
		return false, "", &apperr.GenerationError{Op: "answer evaluation",
			Err: fmt.Errorf("evaluation response missing keys")}
	}

	isCorrect := eval.Evaluation == evalCorrect || eval.Evaluation == evalPartiallyCorrect
	return isCorrect, eval.Feedback, nil
}

func rubricPrompt(questionText, correctAnswer, userAnswer string) string {
	return fmt.Sprintf(`Evaluate the user's answer to an open-ended question.
Original Question: %q
Criteria for a correct answer / Model Answer: %q
User's Answer: %q

Is the user's answer correct, partially correct, or incorrect based on the criteria/model answer?
Provide brief feedback for the user, explaining your evaluation.

Return your evaluation as a JSON object with two keys:
- "evaluation": a string, one of "correct", "partially_correct" or "incorrect".
- "feedback": a string, your feedback to the user.

Output ONLY the JSON object.`, questionText, correctAnswer, userAnswer)
}
