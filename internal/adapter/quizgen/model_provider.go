package quizgen

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"quiz-digest/internal/config"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/sync/singleflight"
)

// ModelFactory builds a langchaingo model. It is called at most once per
// successful initialization.
type ModelFactory func(ctx context.Context) (llms.Model, error)

type modelBox struct {
	model llms.Model
}

// LazyModel builds the model on first use and shares it afterwards.
// Concurrent first callers wait on a single build; a failed build is retried
// by the next caller.
type LazyModel struct {
	factory ModelFactory
	model   atomic.Pointer[modelBox]
	group   singleflight.Group
}

func NewLazyModel(factory ModelFactory) *LazyModel {
	return &LazyModel{factory: factory}
}

// Get returns the shared model, building it if needed.
func (l *LazyModel) Get(ctx context.Context) (llms.Model, error) {
	if box := l.model.Load(); box != nil {
		return box.model, nil
	}

	v, err, _ := l.group.Do("model", func() (interface{}, error) {
		if box := l.model.Load(); box != nil {
			return box.model, nil
		}
		// the model outlives the request that triggered its construction
		m, err := l.factory(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		l.model.Store(&modelBox{model: m})
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(llms.Model), nil
}

// NewModelFactory returns a factory for the configured provider.
func NewModelFactory(cfg config.LLMConfig) ModelFactory {
	return func(ctx context.Context) (llms.Model, error) {
		switch cfg.Provider {
		case config.LLMProviderGemini:
			if cfg.APIKey == "" {
				return nil, fmt.Errorf("llm.api_key is required for the gemini provider")
			}
			return googleai.New(ctx,
				googleai.WithAPIKey(cfg.APIKey),
				googleai.WithDefaultModel(cfg.Model),
			)
		case config.LLMProviderOpenAI:
			opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
			if cfg.ServerURL != "" {
				opts = append(opts, openai.WithBaseURL(cfg.ServerURL))
			}
			return openai.New(opts...)
		case config.LLMProviderOllama:
			return ollama.New(
				ollama.WithServerURL(cfg.ServerURL),
				ollama.WithModel(cfg.Model),
				ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			)
		default:
			return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
		}
	}
}
