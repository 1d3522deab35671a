package quizgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quiz-digest/internal/domain"
)

type rawQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correctIndex"`
}

type rawQuiz struct {
	Summary   string        `json:"summary"`
	Questions []rawQuestion `json:"questions"`
}

// stripCodeFence removes a leading ``` or ```json line and a trailing ``` if present.
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
		s = strings.TrimSpace(s)
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

// ParseQuizResponse decodes the model text strictly. Blank text is
// GENERATION_EMPTY; any shape deviation is GENERATION_MALFORMED.
func ParseQuizResponse(text string) (*domain.GeneratedQuiz, error) {
	body := stripCodeFence(text)
	if body == "" {
		return nil, domain.NewGenerationEmptyError()
	}

	var raw rawQuiz
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, domain.NewGenerationMalformedError(fmt.Errorf("invalid JSON: %w", err))
	}
	if err := raw.validate(); err != nil {
		return nil, domain.NewGenerationMalformedError(err)
	}

	out := &domain.GeneratedQuiz{
		Summary:   strings.TrimSpace(raw.Summary),
		Questions: make([]domain.GeneratedQuestion, 0, len(raw.Questions)),
	}
	for _, q := range raw.Questions {
		options := make([]string, len(q.Options))
		for i, o := range q.Options {
			options[i] = strings.TrimSpace(o)
		}
		out.Questions = append(out.Questions, domain.GeneratedQuestion{
			Question:     strings.TrimSpace(q.Question),
			Options:      options,
			CorrectIndex: *q.CorrectIndex,
		})
	}
	return out, nil
}

func (r *rawQuiz) validate() error {
	if strings.TrimSpace(r.Summary) == "" {
		return errors.New("summary is empty")
	}
	if len(r.Questions) != domain.QuestionsPerQuiz {
		return fmt.Errorf("expected %d questions, got %d", domain.QuestionsPerQuiz, len(r.Questions))
	}
	for i, q := range r.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("question %d: text is empty", i)
		}
		if len(q.Options) != domain.OptionsPerQuestion {
			return fmt.Errorf("question %d: expected %d options, got %d", i, domain.OptionsPerQuestion, len(q.Options))
		}
		seen := make(map[string]bool, len(q.Options))
		for j, o := range q.Options {
			o = strings.TrimSpace(o)
			if o == "" {
				return fmt.Errorf("question %d: option %d is empty", i, j)
			}
			if seen[o] {
				return fmt.Errorf("question %d: duplicate option %q", i, o)
			}
			seen[o] = true
		}
		if q.CorrectIndex == nil {
			return fmt.Errorf("question %d: correctIndex is missing", i)
		}
		if *q.CorrectIndex < 0 || *q.CorrectIndex >= domain.OptionsPerQuestion {
			return fmt.Errorf("question %d: correctIndex %d out of range", i, *q.CorrectIndex)
		}
	}
	return nil
}
