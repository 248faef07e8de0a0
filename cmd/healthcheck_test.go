package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/iksnae/doomlearn/internal"
)

func TestHealthcheckCommand(t *testing.T) {
	env := setupTest(t)
	env.mustRun(t, "new", "--topic", "hash maps")

	out := env.mustRun(t, "healthcheck", "--details")
	for _, want := range []string{
		"Configuration loaded",
		"json storage ready",
		"History: 1 session(s)",
		"Backend status: ok",
		"Provider: gemini",
		"Health check passed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHealthcheckCommand_BackendDown(t *testing.T) {
	env := setupTest(t)
	env.backend.HealthFn = func(context.Context) (*internal.Health, error) {
		return nil, errors.New("connection refused")
	}

	out, err := env.run(t, "healthcheck")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(out, "Backend unreachable") || !strings.Contains(out, "connection refused") {
		t.Errorf("output:\n%s", out)
	}
	if strings.Contains(out, "Health check passed") {
		t.Errorf("should not pass:\n%s", out)
	}
}

func TestHealthcheckCommand_Flags(t *testing.T) {
	cmd := findCommand("healthcheck")
	if cmd == nil {
		t.Fatal("healthcheck command not found in root command")
	}
	if cmd.Flag("details") == nil || cmd.Flags().ShorthandLookup("d") == nil {
		t.Error("healthcheck command should have --details/-d flag")
	}
}

func TestHealthcheckCommand_ReportsSteps(t *testing.T) {
	env := setupTest(t)
	env.backend.HealthFn = func(context.Context) (*internal.Health, error) {
		return nil, errors.New("connection refused")
	}

	if _, err := env.run(t, "healthcheck"); err == nil {
		t.Fatal("expected error")
	}
	progress := env.stderr.String()
	for _, want := range []string{"[1/3] Loading configuration", "[2/3] Opening local storage", "[3/3] Contacting backend"} {
		if !strings.Contains(progress, want) {
			t.Errorf("progress missing %q:\n%s", want, progress)
		}
	}
}
