package internal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr := stdout, stderr
	SetOutput(&out, &errOut)
	t.Cleanup(func() { SetOutput(prevOut, prevErr) })
	return &out, &errOut
}

func TestShowProgress(t *testing.T) {
	tests := []struct {
		name    string
		message string
		fn      func(ctx context.Context, sp *Spinner) error
		wantErr bool
	}{
		{
			name:    "successful function",
			message: "Testing",
			fn: func(ctx context.Context, sp *Spinner) error {
				return nil
			},
			wantErr: false,
		},
		{
			name:    "function with error",
			message: "Testing error",
			fn: func(ctx context.Context, sp *Spinner) error {
				return errors.New("test error")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut := captureOutput(t)
			err := ShowProgress(context.Background(), tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(errOut.String(), tt.message) {
				t.Errorf("output %q does not mention %q", errOut.String(), tt.message)
			}
		})
	}
}

func TestShowProgress_StageMessages(t *testing.T) {
	_, errOut := captureOutput(t)

	err := ShowProgress(context.Background(), "Starting", func(ctx context.Context, sp *Spinner) error {
		sp.SetMessage("Reading topic...")
		sp.SetMessage("Reading topic...")
		sp.SetMessage("Generating 10 posts...")
		return nil
	})
	if err != nil {
		t.Fatalf("ShowProgress() error = %v", err)
	}

	got := errOut.String()
	if strings.Count(got, "Reading topic...") != 1 {
		t.Errorf("repeated stage printed more than once: %q", got)
	}
	if !strings.Contains(got, "Generating 10 posts...") {
		t.Errorf("output %q missing generation stage", got)
	}
}

func TestShowProgress_ContextCancellation(t *testing.T) {
	_, errOut := captureOutput(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := ShowProgress(ctx, "Testing", func(ctx context.Context, sp *Spinner) error {
		cancel()
		return nil
	})
	if !errors.Is(err, ErrCanceled) {
		t.Errorf("ShowProgress() error = %v, want ErrCanceled", err)
	}
	if !strings.Contains(errOut.String(), "Canceled") {
		t.Errorf("output %q should report cancellation", errOut.String())
	}
}

func TestSpinner_StopTwice(t *testing.T) {
	var buf bytes.Buffer
	sp := NewSpinner(&buf, "working")
	sp.Start()
	sp.Stop(nil)
	sp.Stop(errors.New("ignored"))

	if sp.Message() != "working" {
		t.Errorf("Message() = %q", sp.Message())
	}
}

func TestShowProgressWithSteps(t *testing.T) {
	tests := []struct {
		name    string
		steps   []ProgressStep
		wantErr bool
		wantRun int
	}{
		{
			name: "successful steps",
			steps: []ProgressStep{
				{Message: "Step 1", Fn: func(context.Context) error { return nil }},
				{Message: "Step 2", Fn: func(context.Context) error { return nil }},
			},
			wantErr: false,
			wantRun: 2,
		},
		{
			name: "step with error",
			steps: []ProgressStep{
				{Message: "Step 1", Fn: func(context.Context) error { return errors.New("step error") }},
				{Message: "Step 2", Fn: func(context.Context) error { return nil }},
			},
			wantErr: true,
			wantRun: 1,
		},
		{
			name:    "empty steps",
			steps:   []ProgressStep{},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureOutput(t)
			ran := 0
			steps := make([]ProgressStep, len(tt.steps))
			for i, s := range tt.steps {
				fn := s.Fn
				steps[i] = ProgressStep{Message: s.Message, Fn: func(ctx context.Context) error {
					ran++
					return fn(ctx)
				}}
			}

			err := ShowProgressWithSteps(context.Background(), steps)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgressWithSteps() error = %v, wantErr %v", err, tt.wantErr)
			}
			if ran != tt.wantRun {
				t.Errorf("ran %d steps, want %d", ran, tt.wantRun)
			}
		})
	}
}

func TestPrintHelpers(t *testing.T) {
	out, errOut := captureOutput(t)

	PrintSuccess("saved")
	PrintInfo("info")
	PrintWarning("careful")
	PrintError("broken")

	if got := out.String(); got != "saved\ninfo\n" {
		t.Errorf("stdout = %q", got)
	}
	if got := errOut.String(); got != "WARNING: careful\nbroken\n" {
		t.Errorf("stderr = %q", got)
	}
}
