package quizgen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-digest/internal/domain"
	"quiz-digest/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// LLMQuizGenerator implements domain.QuizGenerator over a langchaingo model.
type LLMQuizGenerator struct {
	models      *LazyModel
	timeout     time.Duration
	temperature float64
}

func NewLLMQuizGenerator(models *LazyModel, timeout time.Duration, temperature float64) domain.QuizGenerator {
	return &LLMQuizGenerator{
		models:      models,
		timeout:     timeout,
		temperature: temperature,
	}
}

// GenerateQuiz implements domain.QuizGenerator
func (g *LLMQuizGenerator) GenerateQuiz(ctx context.Context, content string) (*domain.GeneratedQuiz, error) {
	l := logger.Get()

	model, err := g.models.Get(ctx)
	if err != nil {
		l.Error("Failed to initialize LLM client", zap.Error(err))
		return nil, domain.NewGenerationFailedError(fmt.Errorf("model init: %w", err))
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemInstruction),
		llms.TextParts(llms.ChatMessageTypeHuman, content),
	}

	start := time.Now()
	resp, err := model.GenerateContent(ctx, messages, llms.WithTemperature(g.temperature))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Duration("timeout", g.timeout))
		} else {
			l.Error("LLM call failed", zap.Error(err))
		}
		return nil, domain.NewGenerationFailedError(err)
	}
	l.Debug("LLM response received", zap.Duration("elapsed", time.Since(start)))

	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil || resp.Choices[0].Content == "" {
		l.Warn("LLM returned no content")
		return nil, domain.NewGenerationEmptyError()
	}

	quiz, err := ParseQuizResponse(resp.Choices[0].Content)
	if err != nil {
		l.Warn("Discarding LLM response", zap.Error(err), zap.Int("response_length", len(resp.Choices[0].Content)))
		return nil, err
	}
	return quiz, nil
}
