package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	QuestionsPerQuiz   = 5
	OptionsPerQuestion = 4
	MaxTitleLength     = 200
)

// Quiz is a generated summary plus its multiple-choice questions.
type Quiz struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	Summary   string
	CreatedAt time.Time
	Questions []*Question
}

// Question is one multiple-choice item. Correct holds the text of the right
// option, never its index.
type Question struct {
	ID       string
	QuizID   string
	Position int
	Text     string
	Answers  []string
	Correct  string
}

// IsCorrect reports whether answer matches the correct option exactly.
func (q *Question) IsCorrect(answer string) bool {
	return answer != "" && answer == q.Correct
}

func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question %d: text is empty", q.Position)
	}
	if len(q.Answers) != OptionsPerQuestion {
		return fmt.Errorf("question %d: expected %d answers, got %d", q.Position, OptionsPerQuestion, len(q.Answers))
	}
	for _, a := range q.Answers {
		if a == q.Correct {
			return nil
		}
	}
	return fmt.Errorf("question %d: correct answer %q is not one of the answers", q.Position, q.Correct)
}

func (q *Quiz) Validate() error {
	if len(q.Questions) != QuestionsPerQuiz {
		return fmt.Errorf("expected %d questions, got %d", QuestionsPerQuiz, len(q.Questions))
	}
	for _, question := range q.Questions {
		if err := question.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GeneratedQuestion is a question as produced by the generation collaborator.
type GeneratedQuestion struct {
	Question     string
	Options      []string
	CorrectIndex int
}

// GeneratedQuiz is the parsed collaborator output before persistence.
type GeneratedQuiz struct {
	Summary   string
	Questions []GeneratedQuestion
}

// NewQuiz turns a generated result into an unsaved Quiz. IDs and CreatedAt are
// assigned by the repository.
func NewQuiz(userID, title, content string, generated *GeneratedQuiz) (*Quiz, error) {
	if generated == nil {
		return nil, fmt.Errorf("generated quiz is nil")
	}
	quiz := &Quiz{
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		Content:   content,
		Summary:   strings.TrimSpace(generated.Summary),
		Questions: make([]*Question, 0, len(generated.Questions)),
	}
	for i, g := range generated.Questions {
		if g.CorrectIndex < 0 || g.CorrectIndex >= len(g.Options) {
			return nil, fmt.Errorf("question %d: correct index %d out of range", i, g.CorrectIndex)
		}
		answers := make([]string, len(g.Options))
		copy(answers, g.Options)
		quiz.Questions = append(quiz.Questions, &Question{
			Position: i,
			Text:     strings.TrimSpace(g.Question),
			Answers:  answers,
			Correct:  answers[g.CorrectIndex],
		})
	}
	if quiz.Summary == "" {
		return nil, fmt.Errorf("summary is empty")
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	return quiz, nil
}

// ValidateQuizInput checks a create request before any collaborator call.
// Failures carry a per-field details map.
func ValidateQuizInput(title, content string, maxContentChars int) error {
	details := map[string]interface{}{}
	if strings.TrimSpace(title) == "" {
		details["title"] = "title is required"
	} else if utf8.RuneCountInString(title) > MaxTitleLength {
		details["title"] = fmt.Sprintf("title must be at most %d characters", MaxTitleLength)
	}
	if strings.TrimSpace(content) == "" {
		details["content"] = "content is required"
	} else if maxContentChars > 0 && utf8.RuneCountInString(content) > maxContentChars {
		details["content"] = fmt.Sprintf("content must be at most %d characters", maxContentChars)
	}
	if len(details) == 0 {
		return nil
	}
	err := NewValidationError("Request validation failed")
	err.Context = details
	return err
}
