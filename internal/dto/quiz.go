package dto

import (
	"time"

	"quiz-digest/internal/domain"
)

// CreateQuizRequest is the body of POST /api/create-quiz
// @Description Content to summarize and quiz on
type CreateQuizRequest struct {
	Title   string `json:"title" validate:"required,notblank,max=200" example:"The French Revolution"`
	Content string `json:"content" validate:"required,notblank" example:"The French Revolution began in 1789..."`
}

// QuestionResponse represents a question in the API response
type QuestionResponse struct {
	ID       string   `json:"id"`
	QuizID   string   `json:"quizId"`
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
	Correct  string   `json:"correct"`
}

// QuizResponse represents a quiz with its questions
// @Description Generated quiz
type QuizResponse struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Summary   string             `json:"summary"`
	CreatedAt time.Time          `json:"createdAt"`
	Questions []QuestionResponse `json:"questions"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

func ToQuizResponse(q *domain.Quiz) QuizResponse {
	resp := QuizResponse{
		ID:        q.ID,
		UserID:    q.UserID,
		Title:     q.Title,
		Content:   q.Content,
		Summary:   q.Summary,
		CreatedAt: q.CreatedAt,
		Questions: make([]QuestionResponse, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		resp.Questions = append(resp.Questions, QuestionResponse{
			ID:       question.ID,
			QuizID:   question.QuizID,
			Question: question.Text,
			Answers:  question.Answers,
			Correct:  question.Correct,
		})
	}
	return resp
}

func ToQuizResponses(quizzes []*domain.Quiz) []QuizResponse {
	out := make([]QuizResponse, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, ToQuizResponse(q))
	}
	return out
}
