package handler

import (
	"strings"

	"quiz-digest/internal/domain"
	"quiz-digest/internal/dto"
	"quiz-digest/internal/logger"
	"quiz-digest/internal/middleware"
	"quiz-digest/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// CreateQuiz godoc
// @Summary Generate a quiz from content
// @Description Summarizes the content and generates five multiple-choice questions. Nothing is stored if generation fails.
// @Tags quiz
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateQuizRequest true "Title and content"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /create-quiz [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	req, ok := c.Locals(middleware.RequestBodyKey).(*dto.CreateQuizRequest)
	if !ok || req == nil {
		logger.Get().Error("CreateQuiz called without a validated request body")
		return domain.NewInternalError("Request body unavailable", nil)
	}

	quiz, err := h.service.CreateQuiz(c.UserContext(), middleware.UserIDFrom(c), req.Title, req.Content)
	if err != nil {
		return err
	}

	logger.Get().Debug("Quiz generated",
		zap.String("quiz_id", quiz.ID),
		zap.String("request_id", middleware.RequestIDFrom(c)),
	)
	return c.JSON(dto.ToQuizResponse(quiz))
}

// GetQuiz godoc
// @Summary Get a quiz
// @Description Returns a stored quiz with its questions in order
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quiz/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return domain.NewValidationError("Quiz ID is required").WithContext("id", "required")
	}

	quiz, err := h.service.GetQuizByID(c.UserContext(), middleware.UserIDFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToQuizResponse(quiz))
}

// GetAllQuizzes godoc
// @Summary List quizzes
// @Description Returns every stored quiz, newest first
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.QuizResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) GetAllQuizzes(c *fiber.Ctx) error {
	quizzes, err := h.service.GetAllQuizzes(c.UserContext(), middleware.UserIDFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.ToQuizResponses(quizzes))
}
