package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGenerated() *GeneratedQuiz {
	g := &GeneratedQuiz{Summary: "  France is a country in Europe.  "}
	for i := 0; i < QuestionsPerQuiz; i++ {
		g.Questions = append(g.Questions, GeneratedQuestion{
			Question:     "What is the capital of France?",
			Options:      []string{"Paris", "Lyon", "Nice", "Dijon"},
			CorrectIndex: i % OptionsPerQuestion,
		})
	}
	return g
}

func TestNewQuiz(t *testing.T) {
	quiz, err := NewQuiz("user_1", "  Geography ", "France text", sampleGenerated())
	require.NoError(t, err)

	assert.Equal(t, "user_1", quiz.UserID)
	assert.Equal(t, "Geography", quiz.Title)
	assert.Equal(t, "France is a country in Europe.", quiz.Summary)
	require.Len(t, quiz.Questions, QuestionsPerQuiz)
	assert.Equal(t, "Paris", quiz.Questions[0].Correct)
	assert.Equal(t, "Lyon", quiz.Questions[1].Correct)
	for i, q := range quiz.Questions {
		assert.Equal(t, i, q.Position)
		assert.Contains(t, q.Answers, q.Correct)
	}
}

func TestNewQuiz_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *GeneratedQuiz)
	}{
		{"nil", nil},
		{"blank summary", func(g *GeneratedQuiz) { g.Summary = "   " }},
		{"four questions", func(g *GeneratedQuiz) { g.Questions = g.Questions[:4] }},
		{"three options", func(g *GeneratedQuiz) { g.Questions[2].Options = []string{"a", "b", "c"} }},
		{"index out of range", func(g *GeneratedQuiz) { g.Questions[1].CorrectIndex = 4 }},
		{"negative index", func(g *GeneratedQuiz) { g.Questions[1].CorrectIndex = -1 }},
		{"blank question", func(g *GeneratedQuiz) { g.Questions[3].Question = " " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g *GeneratedQuiz
			if tt.mutate != nil {
				g = sampleGenerated()
				tt.mutate(g)
			}
			quiz, err := NewQuiz("user_1", "title", "content", g)
			assert.Error(t, err)
			assert.Nil(t, quiz)
		})
	}
}

func TestQuestion_IsCorrect(t *testing.T) {
	q := &Question{Answers: []string{"Paris", "Lyon", "Nice", "Dijon"}, Correct: "Paris"}
	assert.True(t, q.IsCorrect("Paris"))
	assert.False(t, q.IsCorrect("paris"))
	assert.False(t, q.IsCorrect(""))
}

func TestValidateQuizInput(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		content   string
		wantField []string
	}{
		{"valid", "Title", "Some content", nil},
		{"blank title", "  ", "Some content", []string{"title"}},
		{"blank content", "Title", "\n\t", []string{"content"}},
		{"both blank", "", "", []string{"title", "content"}},
		{"title too long", strings.Repeat("t", MaxTitleLength+1), "c", []string{"title"}},
		{"content too long", "Title", strings.Repeat("c", 11), []string{"content"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuizInput(tt.title, tt.content, 10)
			if tt.wantField == nil {
				assert.NoError(t, err)
				return
			}
			var domainErr *DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, CodeValidation, domainErr.Code)
			for _, f := range tt.wantField {
				assert.Contains(t, domainErr.Context, f)
			}
		})
	}
}

func TestDomainError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStorageError("Failed to save quiz", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeStorage, CodeOf(err))
	assert.True(t, IsCode(err, CodeStorage))
	assert.Contains(t, err.Error(), "connection refused")

	wrapped := errors.Join(errors.New("outer"), NewQuizNotFoundError("01HX"))
	assert.True(t, IsCode(wrapped, CodeNotFound))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
}
