package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-digest/internal/dto"
	"quiz-digest/internal/handler"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

type stubCache struct{ pingErr error }

func (s stubCache) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return 0, nil
}
func (s stubCache) Ping(ctx context.Context) error { return s.pingErr }

func TestHealthHandler_Check(t *testing.T) {
	tests := []struct {
		name           string
		db             stubPinger
		cache          *stubCache
		expectedStatus int
		expected       map[string]string
	}{
		{
			name:           "all up",
			cache:          &stubCache{},
			expectedStatus: fiber.StatusOK,
			expected:       map[string]string{"database": "up", "cache": "up"},
		},
		{
			name:           "cache disabled",
			expectedStatus: fiber.StatusOK,
			expected:       map[string]string{"database": "up", "cache": "disabled"},
		},
		{
			name:           "cache down is not fatal",
			cache:          &stubCache{pingErr: errors.New("refused")},
			expectedStatus: fiber.StatusOK,
			expected:       map[string]string{"database": "up", "cache": "down"},
		},
		{
			name:           "database down",
			db:             stubPinger{err: errors.New("refused")},
			expectedStatus: fiber.StatusServiceUnavailable,
			expected:       map[string]string{"database": "down", "cache": "disabled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h *handler.HealthHandler
			if tt.cache != nil {
				h = handler.NewHealthHandler(tt.db, *tt.cache)
			} else {
				h = handler.NewHealthHandler(tt.db, nil)
			}
			app := fiber.New()
			app.Get("/health", h.Check)

			resp, err := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body dto.HealthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expected, body.Services)
		})
	}
}
