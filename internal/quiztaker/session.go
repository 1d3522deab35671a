// Package quiztaker drives a single attempt at a stored quiz: navigating
// questions, recording answers, and scoring on submit.
package quiztaker

import (
	"errors"

	"quiz-digest/internal/dto"
)

// State is the phase of a Session.
type State int

const (
	StateLoading State = iota
	StateReady
	StateSubmitted
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSubmitted:
		return "submitted"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

var errNoQuestions = errors.New("quiz has no questions")

// Result is one line of the post-submit review.
type Result struct {
	Question string
	Selected string
	Correct  string
	IsRight  bool
}

// Session is not safe for concurrent use.
type Session struct {
	state   State
	quiz    *dto.QuizResponse
	index   int
	answers map[string]string
	score   int
	errMsg  string
}

// New returns a session in StateLoading.
func New() *Session {
	return &Session{state: StateLoading, answers: make(map[string]string)}
}

// Load moves a loading session to StateReady on the first question. A quiz
// without questions moves it to StateError instead.
func (s *Session) Load(quiz *dto.QuizResponse) {
	if s.state != StateLoading {
		return
	}
	if quiz == nil || len(quiz.Questions) == 0 {
		s.Fail(errNoQuestions)
		return
	}
	s.quiz = quiz
	s.index = 0
	s.state = StateReady
}

// Fail moves a loading session to the terminal StateError.
func (s *Session) Fail(err error) {
	if s.state != StateLoading {
		return
	}
	if err == nil {
		err = errors.New("failed to load quiz")
	}
	s.errMsg = err.Error()
	s.state = StateError
}

func (s *Session) State() State { return s.state }

// Err returns the load error message in StateError, otherwise "".
func (s *Session) Err() string { return s.errMsg }

func (s *Session) Quiz() *dto.QuizResponse { return s.quiz }

func (s *Session) Index() int { return s.index }

// Current returns the question at the cursor.
func (s *Session) Current() (dto.QuestionResponse, bool) {
	if s.quiz == nil || s.state == StateError {
		return dto.QuestionResponse{}, false
	}
	return s.quiz.Questions[s.index], true
}

// Progress returns the 1-based position of the cursor and the question count.
func (s *Session) Progress() (int, int) {
	if s.quiz == nil {
		return 0, 0
	}
	return s.index + 1, len(s.quiz.Questions)
}

func (s *Session) Next() {
	if s.state == StateReady && s.index < len(s.quiz.Questions)-1 {
		s.index++
	}
}

func (s *Session) Previous() {
	if s.state == StateReady && s.index > 0 {
		s.index--
	}
}

// Select records answer for the current question, replacing any earlier
// choice. Answers that are not one of the question's options are ignored.
func (s *Session) Select(answer string) bool {
	if s.state != StateReady {
		return false
	}
	q := s.quiz.Questions[s.index]
	for _, option := range q.Answers {
		if option == answer {
			s.answers[q.ID] = answer
			return true
		}
	}
	return false
}

// SelectOption selects the i-th option of the current question.
func (s *Session) SelectOption(i int) bool {
	if s.state != StateReady {
		return false
	}
	options := s.quiz.Questions[s.index].Answers
	if i < 0 || i >= len(options) {
		return false
	}
	return s.Select(options[i])
}

// Answer returns the recorded answer for questionID, or "".
func (s *Session) Answer(questionID string) string {
	return s.answers[questionID]
}

// CanSubmit reports whether the cursor is on the last question of a ready session.
func (s *Session) CanSubmit() bool {
	return s.state == StateReady && s.index == len(s.quiz.Questions)-1
}

// Submit scores every question and freezes the answers. Unanswered
// questions count as wrong.
func (s *Session) Submit() bool {
	if !s.CanSubmit() {
		return false
	}
	score := 0
	for _, q := range s.quiz.Questions {
		if s.answers[q.ID] == q.Correct {
			score++
		}
	}
	s.score = score
	s.state = StateSubmitted
	return true
}

func (s *Session) Score() int { return s.score }

// Results returns the per-question review once submitted.
func (s *Session) Results() []Result {
	if s.state != StateSubmitted {
		return nil
	}
	results := make([]Result, 0, len(s.quiz.Questions))
	for _, q := range s.quiz.Questions {
		selected := s.answers[q.ID]
		results = append(results, Result{
			Question: q.Question,
			Selected: selected,
			Correct:  q.Correct,
			IsRight:  selected == q.Correct,
		})
	}
	return results
}

// Retake clears all answers and the score and returns to the first question.
func (s *Session) Retake() {
	if s.state != StateSubmitted && s.state != StateReady {
		return
	}
	s.answers = make(map[string]string)
	s.index = 0
	s.score = 0
	s.state = StateReady
}
