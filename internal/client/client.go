// Package client is an HTTP client for the quiz API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"quiz-digest/internal/dto"

	"github.com/go-resty/resty/v2"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]interface{}
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type Client struct {
	http *resty.Client
}

// New creates a client for the API at baseURL authenticating with token.
func New(baseURL, token string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if token != "" {
		c.SetAuthToken(token)
	}
	return &Client{http: c}
}

func (c *Client) CreateQuiz(ctx context.Context, title, content string) (*dto.QuizResponse, error) {
	var out dto.QuizResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(dto.CreateQuizRequest{Title: title, Content: content}).
		SetResult(&out).
		SetError(&dto.ErrorResponse{}).
		Post("/api/create-quiz")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error) {
	var out dto.QuizResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&out).
		SetError(&dto.ErrorResponse{}).
		Get("/api/quiz/{id}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListQuizzes returns every stored quiz, newest first.
func (c *Client) ListQuizzes(ctx context.Context) ([]dto.QuizResponse, error) {
	var out []dto.QuizResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&dto.ErrorResponse{}).
		Get("/api/quizzes")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	if out == nil {
		out = []dto.QuizResponse{}
	}
	return out, nil
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if body, ok := resp.Error().(*dto.ErrorResponse); ok && body != nil && body.Code != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		apiErr.Details = body.Details
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode())
	}
	return apiErr
}
