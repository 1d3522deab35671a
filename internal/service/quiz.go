package service

import (
	"context"

	"quiz-digest/internal/config"
	"quiz-digest/internal/domain"
	"quiz-digest/internal/logger"

	"go.uber.org/zap"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	CreateQuiz(ctx context.Context, userID, title, content string) (*domain.Quiz, error)
	GetQuizByID(ctx context.Context, userID, id string) (*domain.Quiz, error)
	GetAllQuizzes(ctx context.Context, userID string) ([]*domain.Quiz, error)
}

type quizService struct {
	repo      domain.QuizRepository
	txManager domain.TransactionManager
	generator domain.QuizGenerator
	limiter   GenerationLimiter
	cfg       config.GenerationConfig
}

func NewQuizService(
	repo domain.QuizRepository,
	txManager domain.TransactionManager,
	generator domain.QuizGenerator,
	limiter GenerationLimiter,
	cfg config.GenerationConfig,
) QuizService {
	if limiter == nil {
		limiter = noopGenerationLimiter{}
	}
	return &quizService{
		repo:      repo,
		txManager: txManager,
		generator: generator,
		limiter:   limiter,
		cfg:       cfg,
	}
}

// CreateQuiz generates a summary and questions for content and stores them
// atomically. Nothing is persisted unless generation fully succeeds.
func (s *quizService) CreateQuiz(ctx context.Context, userID, title, content string) (*domain.Quiz, error) {
	l := logger.Get().With(zap.String("user_id", userID))

	if userID == "" {
		return nil, domain.NewUnauthorizedError("Authentication required")
	}
	if err := domain.ValidateQuizInput(title, content, s.cfg.MaxContentChars); err != nil {
		return nil, err
	}

	allowed, err := s.limiter.Allow(ctx, userID)
	if err != nil {
		l.Warn("Generation limiter unavailable, allowing request", zap.Error(err))
		allowed = true
	}
	if !allowed {
		return nil, domain.NewRateLimitedError("Too many quizzes generated, try again later")
	}

	generated, err := s.generator.GenerateQuiz(ctx, content)
	if err != nil {
		if domain.CodeOf(err) == "" {
			return nil, domain.NewGenerationFailedError(err)
		}
		return nil, err
	}

	quiz, err := domain.NewQuiz(userID, title, content, generated)
	if err != nil {
		return nil, domain.NewGenerationMalformedError(err)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateQuiz(txCtx, quiz); err != nil {
			return err
		}
		return s.repo.CreateQuestions(txCtx, quiz.ID, quiz.Questions)
	})
	if err != nil {
		return nil, domain.NewStorageError("Failed to save quiz", err)
	}

	stored, err := s.repo.GetQuizByID(ctx, quiz.ID)
	if err != nil {
		return nil, domain.NewStorageError("Failed to load saved quiz", err)
	}
	if stored == nil {
		return nil, domain.NewStorageError("Saved quiz could not be found", nil)
	}

	l.Info("Quiz created", zap.String("quiz_id", stored.ID), zap.Int("questions", len(stored.Questions)))
	return stored, nil
}

// GetQuizByID implements QuizService
func (s *quizService) GetQuizByID(ctx context.Context, userID, id string) (*domain.Quiz, error) {
	if userID == "" {
		return nil, domain.NewUnauthorizedError("Authentication required")
	}

	quiz, err := s.repo.GetQuizByID(ctx, id)
	if err != nil {
		return nil, domain.NewStorageError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return quiz, nil
}

// GetAllQuizzes implements QuizService
func (s *quizService) GetAllQuizzes(ctx context.Context, userID string) ([]*domain.Quiz, error) {
	if userID == "" {
		return nil, domain.NewUnauthorizedError("Authentication required")
	}

	quizzes, err := s.repo.GetAllQuizzes(ctx)
	if err != nil {
		return nil, domain.NewStorageError("Failed to list quizzes", err)
	}
	return quizzes, nil
}
