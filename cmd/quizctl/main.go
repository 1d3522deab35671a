// Command quizctl talks to the quiz API from a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"quiz-digest/internal/client"
	"quiz-digest/internal/config"
	"quiz-digest/internal/history"
	"quiz-digest/internal/service"

	"github.com/spf13/pflag"
)

const (
	envURL   = "QUIZCTL_URL"
	envToken = "QUIZCTL_TOKEN"
)

const usage = `usage: quizctl <command> [flags]

commands:
  create  --title T --file F   generate a quiz from a file ("-" reads stdin)
  history                      list stored quizzes, newest first
  take    ID                   take a stored quiz interactively
  token   --user U             sign a development token with auth.jwt_secret

environment:
  QUIZCTL_URL    API base URL (default http://localhost:8090)
  QUIZCTL_TOKEN  bearer token
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(command string, args []string, in io.Reader, out io.Writer) error {
	switch command {
	case "create":
		return runCreate(args, in, out)
	case "history":
		return runHistory(args, out)
	case "take":
		return runTakeCommand(args, in, out)
	case "token":
		return runToken(args, out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func newClient(timeout time.Duration) *client.Client {
	baseURL := os.Getenv(envURL)
	if baseURL == "" {
		baseURL = "http://localhost:8090"
	}
	return client.New(baseURL, os.Getenv(envToken), timeout)
}

func runCreate(args []string, in io.Reader, out io.Writer) error {
	fs := pflag.NewFlagSet("create", pflag.ContinueOnError)
	title := fs.StringP("title", "t", "", "quiz title")
	file := fs.StringP("file", "f", "-", "content file, - for stdin")
	timeout := fs.Duration("timeout", 2*time.Minute, "request timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*title) == "" {
		return errors.New("--title is required")
	}

	var content []byte
	var err error
	if *file == "-" {
		content, err = io.ReadAll(in)
	} else {
		content, err = os.ReadFile(*file)
	}
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	quiz, err := newClient(*timeout).CreateQuiz(ctx, *title, string(content))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created quiz %s: %s\n\n%s\n\n", quiz.ID, quiz.Title, quiz.Summary)
	fmt.Fprintf(out, "Take it with: quizctl take %s\n", quiz.ID)
	return nil
}

func runHistory(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("history", pflag.ContinueOnError)
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	return printHistory(history.New(newClient(*timeout)).Load(ctx), out)
}

func printHistory(view history.View, out io.Writer) error {
	switch view.State {
	case history.StateError:
		return errors.New(view.Message)
	case history.StateEmpty:
		fmt.Fprintln(out, "No quizzes yet.")
	case history.StateLoaded:
		for _, e := range view.Entries {
			fmt.Fprintf(out, "%s  %s  %s (%d questions)\n", e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Title, e.QuestionCount)
		}
	}
	return nil
}

func runTakeCommand(args []string, in io.Reader, out io.Writer) error {
	fs := pflag.NewFlagSet("take", pflag.ContinueOnError)
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("take requires a quiz ID")
	}
	return runTake(context.Background(), newClient(*timeout), fs.Arg(0), *timeout, in, out)
}

func runToken(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("token", pflag.ContinueOnError)
	user := fs.StringP("user", "u", "", "user ID to put in the sub claim")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		return errors.New("--user is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	identity, err := service.NewIdentityService(cfg.Auth)
	if err != nil {
		return err
	}
	token, err := identity.IssueToken(*user, *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}
