// Package history projects the stored quiz list into the sidebar view.
package history

import (
	"context"
	"time"

	"quiz-digest/internal/dto"
)

// Lister is satisfied by client.Client.
type Lister interface {
	ListQuizzes(ctx context.Context) ([]dto.QuizResponse, error)
}

type State int

const (
	StateLoading State = iota
	StateEmpty
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Entry is one sidebar row.
type Entry struct {
	ID            string
	Title         string
	Summary       string
	CreatedAt     time.Time
	QuestionCount int
}

// View is a snapshot of the sidebar. Entries is set only in StateLoaded and
// Message only in StateError.
type View struct {
	State   State
	Entries []Entry
	Message string
}

type Sidebar struct {
	lister Lister
	view   View
}

func New(lister Lister) *Sidebar {
	return &Sidebar{lister: lister, view: View{State: StateLoading}}
}

func (s *Sidebar) View() View { return s.view }

// Load fetches the quiz list and replaces the current view. Entries keep
// the order returned by the lister.
func (s *Sidebar) Load(ctx context.Context) View {
	s.view = View{State: StateLoading}

	quizzes, err := s.lister.ListQuizzes(ctx)
	switch {
	case err != nil:
		s.view = View{State: StateError, Message: err.Error()}
	case len(quizzes) == 0:
		s.view = View{State: StateEmpty}
	default:
		entries := make([]Entry, 0, len(quizzes))
		for _, q := range quizzes {
			entries = append(entries, Entry{
				ID:            q.ID,
				Title:         q.Title,
				Summary:       q.Summary,
				CreatedAt:     q.CreatedAt,
				QuestionCount: len(q.Questions),
			})
		}
		s.view = View{State: StateLoaded, Entries: entries}
	}
	return s.view
}
