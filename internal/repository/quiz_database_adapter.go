package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-digest/internal/domain"
	"quiz-digest/internal/repository/models"
	"quiz-digest/internal/util"

	"github.com/jmoiron/sqlx"
)

// maxInListSize is Oracle's cap on expressions in an IN list (ORA-01795).
const maxInListSize = 1000

// Column aliases are quoted so Oracle returns lowercase names matching the db tags.
const (
	insertQuizQuery = `INSERT INTO quizzes (id, user_id, title, content, summary, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	insertQuestionQuery = `INSERT INTO questions (id, quiz_id, position, question, answers, correct) VALUES (?, ?, ?, ?, ?, ?)`

	quizColumns = `id "id", user_id "user_id", title "title", content "content", summary "summary", created_at "created_at"`

	questionColumns = `id "id", quiz_id "quiz_id", position "position", question "question", answers "answers", correct "correct"`

	selectQuizByIDQuery = `SELECT ` + quizColumns + ` FROM quizzes WHERE id = ?`

	selectAllQuizzesQuery = `SELECT ` + quizColumns + ` FROM quizzes ORDER BY created_at DESC, id DESC`

	selectQuestionsByQuizQuery = `SELECT ` + questionColumns + ` FROM questions WHERE quiz_id = ? ORDER BY position`

	selectQuestionsByQuizzesQuery = `SELECT ` + questionColumns + ` FROM questions WHERE quiz_id IN (?) ORDER BY quiz_id, position`
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db DBTX
}

func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// CreateQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return fmt.Errorf("cannot save nil quiz")
	}
	row := toModelQuiz(quiz)
	row.ID = util.NewULID()
	row.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	exec := GetExecutor(ctx, a.db)
	_, err := exec.ExecContext(ctx, exec.Rebind(insertQuizQuery),
		row.ID, row.UserID, row.Title, row.Content, row.Summary, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert quiz: %w", err)
	}

	quiz.ID = row.ID
	quiz.CreatedAt = row.CreatedAt
	return nil
}

// CreateQuestions implements domain.QuizRepository
func (a *QuizDatabaseAdapter) CreateQuestions(ctx context.Context, quizID string, questions []*domain.Question) error {
	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(insertQuestionQuery)

	for _, q := range questions {
		row := toModelQuestion(q)
		row.ID = util.NewULID()
		row.QuizID = quizID

		if _, err := exec.ExecContext(ctx, query,
			row.ID, row.QuizID, row.Position, row.Question, row.Answers, row.Correct); err != nil {
			return fmt.Errorf("failed to insert question %d of quiz %s: %w", row.Position, quizID, err)
		}
		q.ID = row.ID
		q.QuizID = quizID
	}
	return nil
}

// GetQuizByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	exec := GetExecutor(ctx, a.db)

	var row models.Quiz
	if err := exec.GetContext(ctx, &row, exec.Rebind(selectQuizByIDQuery), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}

	var questionRows []models.Question
	if err := exec.SelectContext(ctx, &questionRows, exec.Rebind(selectQuestionsByQuizQuery), id); err != nil {
		return nil, fmt.Errorf("failed to get questions for quiz %s: %w", id, err)
	}

	return toDomainQuiz(&row, questionRows), nil
}

// GetAllQuizzes implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetAllQuizzes(ctx context.Context) ([]*domain.Quiz, error) {
	exec := GetExecutor(ctx, a.db)

	var rows []models.Quiz
	if err := exec.SelectContext(ctx, &rows, selectAllQuizzesQuery); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	if len(rows) == 0 {
		return []*domain.Quiz{}, nil
	}

	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}

	var questionRows []models.Question
	for start := 0; start < len(ids); start += maxInListSize {
		end := min(start+maxInListSize, len(ids))
		query, args, err := sqlx.In(selectQuestionsByQuizzesQuery, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to build questions query: %w", err)
		}

		var batch []models.Question
		if err := exec.SelectContext(ctx, &batch, exec.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("failed to list questions: %w", err)
		}
		questionRows = append(questionRows, batch...)
	}

	byQuiz := make(map[string][]models.Question, len(rows))
	for _, q := range questionRows {
		byQuiz[q.QuizID] = append(byQuiz[q.QuizID], q)
	}

	quizzes := make([]*domain.Quiz, 0, len(rows))
	for i := range rows {
		quizzes = append(quizzes, toDomainQuiz(&rows[i], byQuiz[rows[i].ID]))
	}
	return quizzes, nil
}

func toModelQuiz(q *domain.Quiz) *models.Quiz {
	return &models.Quiz{
		ID:        q.ID,
		UserID:    q.UserID,
		Title:     q.Title,
		Content:   q.Content,
		Summary:   q.Summary,
		CreatedAt: q.CreatedAt,
	}
}

func toModelQuestion(q *domain.Question) *models.Question {
	return &models.Question{
		ID:       q.ID,
		QuizID:   q.QuizID,
		Position: q.Position,
		Question: q.Text,
		Answers:  models.StringSlice(q.Answers),
		Correct:  q.Correct,
	}
}

func toDomainQuiz(row *models.Quiz, questionRows []models.Question) *domain.Quiz {
	quiz := &domain.Quiz{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		Content:   row.Content,
		Summary:   row.Summary,
		CreatedAt: row.CreatedAt,
		Questions: make([]*domain.Question, 0, len(questionRows)),
	}
	for _, qr := range questionRows {
		quiz.Questions = append(quiz.Questions, &domain.Question{
			ID:       qr.ID,
			QuizID:   qr.QuizID,
			Position: qr.Position,
			Text:     qr.Question,
			Answers:  []string(qr.Answers),
			Correct:  qr.Correct,
		})
	}
	return quiz
}
