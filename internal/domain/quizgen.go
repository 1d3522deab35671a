package domain

import "context"

// QuizGenerator produces a summary and questions for a piece of content.
// Errors are DomainErrors with one of the generation codes.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, content string) (*GeneratedQuiz, error)
}
