package domain

import "context"

// QuizRepository defines the interface for quiz persistence
type QuizRepository interface {
	// CreateQuiz inserts the quiz row and assigns ID and CreatedAt.
	CreateQuiz(ctx context.Context, quiz *Quiz) error

	// CreateQuestions inserts the questions of a quiz, assigning IDs.
	CreateQuestions(ctx context.Context, quizID string, questions []*Question) error

	// GetQuizByID returns the quiz with its questions, or nil when it does not exist.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)

	// GetAllQuizzes returns every quiz with questions, newest first.
	GetAllQuizzes(ctx context.Context) ([]*Quiz, error)
}

// TransactionManager runs fn in a transaction carried by the context it passes.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
