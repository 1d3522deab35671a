package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"quiz-digest/internal/dto"
	"quiz-digest/internal/quiztaker"
)

type quizGetter interface {
	GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error)
}

const takeHelp = "1-4 select  n next  p previous  s submit  r retake  q quit"

// runTake loads quiz id and drives a quiztaker.Session from line commands read from in.
func runTake(ctx context.Context, getter quizGetter, id string, timeout time.Duration, in io.Reader, out io.Writer) error {
	session := quiztaker.New()

	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	quiz, err := getter.GetQuiz(loadCtx, id)
	cancel()
	if err != nil {
		session.Fail(err)
	} else {
		session.Load(quiz)
	}
	if session.State() == quiztaker.StateError {
		return fmt.Errorf("could not load quiz: %s", session.Err())
	}

	fmt.Fprintf(out, "%s\n\n%s\n\n%s\n", quiz.Title, quiz.Summary, takeHelp)
	printQuestion(session, out)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		switch cmd {
		case "":
			continue
		case "q":
			return nil
		case "n":
			session.Next()
		case "p":
			session.Previous()
		case "s":
			if !session.Submit() {
				fmt.Fprintln(out, "Submit is available on the last question.")
				continue
			}
			printResults(session, out)
			continue
		case "r":
			session.Retake()
		default:
			n, convErr := strconv.Atoi(cmd)
			if convErr != nil || !session.SelectOption(n-1) {
				fmt.Fprintln(out, takeHelp)
				continue
			}
		}
		if session.State() == quiztaker.StateReady {
			printQuestion(session, out)
		}
	}
	return scanner.Err()
}

func printQuestion(s *quiztaker.Session, out io.Writer) {
	q, ok := s.Current()
	if !ok {
		return
	}
	pos, total := s.Progress()
	selected := s.Answer(q.ID)

	fmt.Fprintf(out, "\nQuestion %d of %d\n%s\n", pos, total, q.Question)
	for i, option := range q.Answers {
		marker := " "
		if option == selected {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %d. %s\n", marker, i+1, option)
	}
}

func printResults(s *quiztaker.Session, out io.Writer) {
	_, total := s.Progress()
	fmt.Fprintf(out, "\nScore: %d/%d\n", s.Score(), total)
	for i, r := range s.Results() {
		mark := "x"
		if r.IsRight {
			mark = "ok"
		}
		selected := r.Selected
		if selected == "" {
			selected = "(no answer)"
		}
		fmt.Fprintf(out, "%d. [%s] %s\n   yours: %s  correct: %s\n", i+1, mark, r.Question, selected, r.Correct)
	}
	fmt.Fprintln(out, "\nr to retake, q to quit")
}
