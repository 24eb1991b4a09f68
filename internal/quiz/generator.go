package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"reading-system/internal/apperr"
	"reading-system/internal/models"
	"reading-system/pkg/llm"
)

const (
	// DefaultQuestionCount is how many questions a quiz targets.
	DefaultQuestionCount = 5
	// DefaultOptionCount is how many options a multiple choice question
	// is asked to carry.
	DefaultOptionCount = 4
)

// Generator turns passage text into a set of typed quiz questions via
// the text-generation capability.
type Generator struct {
	llm    llm.Client
	logger *slog.Logger
}

func NewGenerator(client llm.Client, logger *slog.Logger) *Generator {
	return &Generator{llm: client, logger: logger}
}

// candidate is the loosely-typed shape of one generated question before
// validation. Options stays raw so a malformed value can be coerced
// instead of failing the element.
type candidate struct {
	ID            string          `json:"id"`
	QuestionText  string          `json:"question_text"`
	QuestionType  string          `json:"question_type"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer string          `json:"correct_answer"`
	Explanation   string          `json:"explanation"`
}

// GenerateQuestions asks the model for targetCount questions about the
// text and validates the result. Candidates missing required fields are
// discarded; an under-count is tolerated with a warning. A failed model
// call or an unparseable payload is fatal.
func (g *Generator) GenerateQuestions(ctx context.Context, text string, targetCount, optionsPerChoice int) ([]models.Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &apperr.ValidationError{Msg: "text must not be empty"}
	}
	if targetCount <= 0 {
		targetCount = DefaultQuestionCount
	}
	if optionsPerChoice <= 0 {
		optionsPerChoice = DefaultOptionCount
	}

	raw, err := g.llm.Complete(ctx, questionsPrompt(text, targetCount, optionsPerChoice))
	if err != nil {
		return nil, &apperr.GenerationError{Op: "quiz generation", Err: err}
	}

	payload, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, &apperr.GenerationError{Op: "quiz generation", Err: err}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &elements); err != nil {
		return nil, &apperr.GenerationError{Op: "quiz generation", Err: fmt.Errorf("payload is not a question array: %w", err)}
	}

	questions := make([]models.Question, 0, targetCount)
	for _, element := range elements {
		var c candidate
		if err := json.Unmarshal(element, &c); err != nil {
			g.logger.Warn("discarding malformed question candidate", "error", err)
			continue
		}
		if c.QuestionText == "" || c.QuestionType == "" || c.CorrectAnswer == "" {
			g.logger.Warn("discarding question candidate with missing fields",
				"question_text", c.QuestionText, "question_type", c.QuestionType)
			continue
		}

		question := models.Question{
			ID:            c.ID,
			QuestionText:  c.QuestionText,
			QuestionType:  c.QuestionType,
			CorrectAnswer: c.CorrectAnswer,
			Explanation:   c.Explanation,
		}
		if question.ID == "" {
			question.ID = uuid.NewString()
		}
		if c.QuestionType == models.QuestionTypeMultipleChoice {
			// A non-list options value is coerced to an empty list
			// rather than failing the batch.
			var options []string
			if err := json.Unmarshal(c.Options, &options); err != nil {
				options = []string{}
			}
			question.Options = options
		}

		questions = append(questions, question)
		if len(questions) >= targetCount {
			break
		}
	}

	if len(questions) < targetCount {
		g.logger.Warn("generated fewer questions than requested",
			"generated", len(questions), "requested", targetCount)
	}

	return questions, nil
}

func questionsPrompt(text string, targetCount, optionsPerChoice int) string {
	return fmt.Sprintf(`Based on the following text, generate a list of %d quiz questions.
Each question should be distinct and test a different aspect of the text.
Include a mix of multiple-choice and open-ended questions.
For each question, provide the following in JSON format:
- "id": a unique UUID string for the question.
- "question_text": the full text of the question.
- "question_type": either "multiple_choice" or "open_ended".
- "options": for "multiple_choice" questions, a list of %d string options. For "open_ended", null or an empty list.
- "correct_answer": for "multiple_choice", the exact string of the correct option. For "open_ended", a concise model answer.
- "explanation": optional, a brief explanation of why the answer is correct.

Output ONLY a valid JSON array of question objects.

Text for quiz generation:
---
%s
---`, targetCount, optionsPerChoice, text)
}
