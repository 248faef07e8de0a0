package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Output streams, replaced in tests
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetOutput redirects user-facing output
func SetOutput(out, errOut io.Writer) {
	stdout = out
	stderr = errOut
}

// Spinner animates a status line on a terminal. On anything else it prints
// each message once.
type Spinner struct {
	w   io.Writer
	tty bool

	mu      sync.Mutex
	message string

	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a spinner writing to w
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		tty:     isTerminal(w),
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins animating
func (s *Spinner) Start() {
	if !s.tty {
		fmt.Fprintln(s.w, s.Message())
		close(s.done)
		return
	}
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(s.w, "\r\033[K%s %s", progressStyle.Render(frame), s.Message())
				i++
			}
		}
	}()
}

// SetMessage changes the status text
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	changed := s.message != message
	s.message = message
	s.mu.Unlock()
	if changed && !s.tty {
		fmt.Fprintln(s.w, message)
	}
}

// Message returns the current status text
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Stop halts the animation and prints the outcome
func (s *Spinner) Stop(err error) {
	select {
	case <-s.stop:
		return
	default:
		close(s.stop)
	}
	<-s.done

	msg := s.Message()
	switch {
	case err == nil:
		if s.tty {
			fmt.Fprintf(s.w, "\r\033[K%s %s\n", successStyle.Render("✓"), msg)
		}
	case errors.Is(err, ErrCanceled):
		if s.tty {
			fmt.Fprintf(s.w, "\r\033[K%s %s\n", warningStyle.Render("■"), "Canceled")
		} else {
			fmt.Fprintln(s.w, "Canceled")
		}
	default:
		if s.tty {
			fmt.Fprintf(s.w, "\r\033[K%s %s\n", errorStyle.Render("✗"), msg)
		}
	}
}

// ProgressStep represents a single step in a multi-step process
type ProgressStep struct {
	Message string
	Fn      func(ctx context.Context) error
}

// ShowProgress runs fn under a spinner. fn receives the spinner so it can
// report stage changes.
func ShowProgress(ctx context.Context, message string, fn func(ctx context.Context, sp *Spinner) error) error {
	sp := NewSpinner(stderr, message)
	sp.Start()
	err := fn(ctx, sp)
	if err == nil && ctx.Err() == context.Canceled {
		err = ErrCanceled
	}
	sp.Stop(err)
	return err
}

// ShowProgressWithSteps runs steps in order, stopping at the first failure
func ShowProgressWithSteps(ctx context.Context, steps []ProgressStep) error {
	for i, step := range steps {
		msg := fmt.Sprintf("[%d/%d] %s", i+1, len(steps), step.Message)
		err := ShowProgress(ctx, msg, func(ctx context.Context, _ *Spinner) error {
			return step.Fn(ctx)
		})
		if err != nil {
			if errors.Is(err, ErrCanceled) {
				return err
			}
			return fmt.Errorf("%s: %w", step.Message, err)
		}
	}
	return nil
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	if isTerminal(stdout) {
		fmt.Fprintf(stdout, "%s %s\n", successStyle.Render("✓"), message)
	} else {
		fmt.Fprintln(stdout, message)
	}
}

// PrintError prints an error message
func PrintError(message string) {
	if isTerminal(stderr) {
		fmt.Fprintf(stderr, "%s %s\n", errorStyle.Render("✗"), message)
	} else {
		fmt.Fprintf(stderr, "%s\n", message)
	}
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	if isTerminal(stdout) {
		fmt.Fprintf(stdout, "%s %s\n", progressStyle.Render("ℹ"), message)
	} else {
		fmt.Fprintln(stdout, message)
	}
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	if isTerminal(stderr) {
		fmt.Fprintf(stderr, "%s %s\n", warningStyle.Render("⚠"), message)
	} else {
		fmt.Fprintf(stderr, "WARNING: %s\n", message)
	}
}
