package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-digest/internal/domain"
	"quiz-digest/internal/dto"
	"quiz-digest/internal/handler"
	"quiz-digest/internal/middleware"
	"quiz-digest/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

// MockQuizService
type MockQuizService struct {
	CreateQuizFunc    func(ctx context.Context, userID, title, content string) (*domain.Quiz, error)
	GetQuizByIDFunc   func(ctx context.Context, userID, id string) (*domain.Quiz, error)
	GetAllQuizzesFunc func(ctx context.Context, userID string) ([]*domain.Quiz, error)
}

func (m *MockQuizService) CreateQuiz(ctx context.Context, userID, title, content string) (*domain.Quiz, error) {
	if m.CreateQuizFunc != nil {
		return m.CreateQuizFunc(ctx, userID, title, content)
	}
	panic("MockQuizService.CreateQuizFunc not implemented")
}

func (m *MockQuizService) GetQuizByID(ctx context.Context, userID, id string) (*domain.Quiz, error) {
	if m.GetQuizByIDFunc != nil {
		return m.GetQuizByIDFunc(ctx, userID, id)
	}
	panic("MockQuizService.GetQuizByIDFunc not implemented")
}

func (m *MockQuizService) GetAllQuizzes(ctx context.Context, userID string) ([]*domain.Quiz, error) {
	if m.GetAllQuizzesFunc != nil {
		return m.GetAllQuizzesFunc(ctx, userID)
	}
	panic("MockQuizService.GetAllQuizzesFunc not implemented")
}

const testUserID = "user_123"

// withUser stands in for middleware.Protected.
func withUser(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals(middleware.UserIDKey, userID)
		}
		return c.Next()
	}
}

func setupApp(svc *MockQuizService, userID string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	h := handler.NewQuizHandler(svc)
	vm := middleware.NewValidationMiddleware(validation.NewValidator())

	api := app.Group("/api", withUser(userID))
	api.Post("/create-quiz", middleware.ValidateBody[dto.CreateQuizRequest](vm), h.CreateQuiz)
	api.Get("/quiz/:id", h.GetQuiz)
	api.Get("/quizzes", h.GetAllQuizzes)
	return app
}

func sampleQuiz(id string) *domain.Quiz {
	q := &domain.Quiz{
		ID:        id,
		UserID:    testUserID,
		Title:     "France",
		Content:   "France is a country in Western Europe.",
		Summary:   "A short summary about France.",
		CreatedAt: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	for i := 0; i < domain.QuestionsPerQuiz; i++ {
		q.Questions = append(q.Questions, &domain.Question{
			ID:       id + "_q" + string(rune('0'+i)),
			QuizID:   id,
			Position: i,
			Text:     "What is the capital of France?",
			Answers:  []string{"Paris", "Lyon", "Nice", "Dijon"},
			Correct:  "Paris",
		})
	}
	return q
}

func decodeError(t *testing.T, body io.Reader) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestQuizHandler_CreateQuiz(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &MockQuizService{
			CreateQuizFunc: func(ctx context.Context, userID, title, content string) (*domain.Quiz, error) {
				assert.Equal(t, testUserID, userID)
				assert.Equal(t, "France", title)
				assert.Equal(t, "France is a country.", content)
				return sampleQuiz("quiz_1"), nil
			},
		}
		app := setupApp(svc, testUserID)

		body, _ := json.Marshal(map[string]string{"title": "France", "content": "France is a country.", "extra": "ignored"})
		req := httptest.NewRequest("POST", "/api/create-quiz", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got dto.QuizResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "quiz_1", got.ID)
		assert.Equal(t, testUserID, got.UserID)
		require.Len(t, got.Questions, domain.QuestionsPerQuiz)
		assert.Equal(t, "Paris", got.Questions[0].Correct)
		assert.Len(t, got.Questions[0].Answers, domain.OptionsPerQuestion)
	})

	t.Run("camelCase wire format", func(t *testing.T) {
		svc := &MockQuizService{
			CreateQuizFunc: func(ctx context.Context, userID, title, content string) (*domain.Quiz, error) {
				return sampleQuiz("quiz_1"), nil
			},
		}
		app := setupApp(svc, testUserID)

		req := httptest.NewRequest("POST", "/api/create-quiz", bytes.NewBufferString(`{"title":"France","content":"text"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)

		var raw map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
		for _, key := range []string{"id", "userId", "title", "content", "summary", "createdAt", "questions"} {
			assert.Contains(t, raw, key)
		}
		question := raw["questions"].([]interface{})[0].(map[string]interface{})
		for _, key := range []string{"id", "quizId", "question", "answers", "correct"} {
			assert.Contains(t, question, key)
		}
	})

	validationCases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"title":`},
		{"missing title", `{"content":"text"}`},
		{"blank content", `{"title":"France","content":"   "}`},
	}
	for _, tc := range validationCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &MockQuizService{}
			app := setupApp(svc, testUserID)

			req := httptest.NewRequest("POST", "/api/create-quiz", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, string(domain.CodeValidation), decodeError(t, resp.Body).Code)
		})
	}

	serviceErrors := []struct {
		name   string
		err    error
		status int
	}{
		{"rate limited", domain.NewRateLimitedError("slow down"), fiber.StatusTooManyRequests},
		{"generation empty", domain.NewGenerationEmptyError(), fiber.StatusInternalServerError},
		{"generation malformed", domain.NewGenerationMalformedError(errors.New("3 questions")), fiber.StatusInternalServerError},
		{"generation transport", domain.NewGenerationFailedError(errors.New("dial tcp")), fiber.StatusBadGateway},
		{"storage", domain.NewStorageError("Failed to save quiz", errors.New("tx aborted")), fiber.StatusInternalServerError},
		{"unauthorized", domain.NewUnauthorizedError("Authentication required"), fiber.StatusUnauthorized},
	}
	for _, tc := range serviceErrors {
		t.Run(tc.name, func(t *testing.T) {
			svc := &MockQuizService{
				CreateQuizFunc: func(ctx context.Context, userID, title, content string) (*domain.Quiz, error) {
					return nil, tc.err
				},
			}
			app := setupApp(svc, testUserID)

			req := httptest.NewRequest("POST", "/api/create-quiz", bytes.NewBufferString(`{"title":"France","content":"text"}`))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			body := decodeError(t, resp.Body)
			assert.Equal(t, string(domain.CodeOf(tc.err)), body.Code)
			assert.Equal(t, tc.status, body.Status)
		})
	}
}

func TestQuizHandler_GetQuiz(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &MockQuizService{
			GetQuizByIDFunc: func(ctx context.Context, userID, id string) (*domain.Quiz, error) {
				assert.Equal(t, "quiz_1", id)
				return sampleQuiz(id), nil
			},
		}
		app := setupApp(svc, testUserID)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/quiz/quiz_1", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got dto.QuizResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "quiz_1", got.ID)
		assert.Len(t, got.Questions, domain.QuestionsPerQuiz)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &MockQuizService{
			GetQuizByIDFunc: func(ctx context.Context, userID, id string) (*domain.Quiz, error) {
				return nil, domain.NewQuizNotFoundError(id)
			},
		}
		app := setupApp(svc, testUserID)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/quiz/missing", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

		body := decodeError(t, resp.Body)
		assert.Equal(t, string(domain.CodeNotFound), body.Code)
		assert.Equal(t, "missing", body.Details["id"])
	})
}

func TestQuizHandler_GetAllQuizzes(t *testing.T) {
	t.Run("newest first", func(t *testing.T) {
		svc := &MockQuizService{
			GetAllQuizzesFunc: func(ctx context.Context, userID string) ([]*domain.Quiz, error) {
				return []*domain.Quiz{sampleQuiz("quiz_2"), sampleQuiz("quiz_1")}, nil
			},
		}
		app := setupApp(svc, testUserID)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/quizzes", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got []dto.QuizResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got, 2)
		assert.Equal(t, "quiz_2", got[0].ID)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		svc := &MockQuizService{
			GetAllQuizzesFunc: func(ctx context.Context, userID string) ([]*domain.Quiz, error) {
				return []*domain.Quiz{}, nil
			},
		}
		app := setupApp(svc, testUserID)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/quizzes", nil), -1)
		require.NoError(t, err)
		raw, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `[]`, string(raw))
	})

	t.Run("storage error", func(t *testing.T) {
		svc := &MockQuizService{
			GetAllQuizzesFunc: func(ctx context.Context, userID string) ([]*domain.Quiz, error) {
				return nil, domain.NewStorageError("Failed to list quizzes", errors.New("timeout"))
			},
		}
		app := setupApp(svc, testUserID)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/quizzes", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, string(domain.CodeStorage), decodeError(t, resp.Body).Code)
	})
}
