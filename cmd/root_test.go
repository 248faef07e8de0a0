package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name    string
		args    []string
		wantErr bool
		want    string
	}{
		{
			name: "version flag",
			args: []string{"--version"},
			want: "commit:",
		},
		{
			name: "help flag",
			args: []string{"--help"},
			want: "doomlearn new",
		},
		{
			name: "subcommand help flag",
			args: []string{"graph", "--help"},
			want: "--clear-cache",
		},
		{
			name: "version flag after persistent flag",
			args: []string{"--verbose", "--version"},
			want: "commit:",
		},
		{
			name:    "unknown command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
		{
			name:    "invalid storage flag",
			args:    []string{"history", "--storage", "mongo"},
			wantErr: true,
		},
		{
			name:    "invalid api url flag",
			args:    []string{"history", "--api-url", "localhost"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := env.run(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.want != "" && !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	for _, name := range []string{
		"new", "retry", "feed", "history", "like", "save", "unsave", "hide",
		"saved", "graph", "recommend", "settings", "export", "healthcheck",
	} {
		if findCommand(name) == nil {
			t.Errorf("%s command not registered", name)
		}
	}
}

func TestRootCommand_SQLiteStorage(t *testing.T) {
	env := setupTest(t)

	env.mustRun(t, "new", "--topic", "hash maps", "--storage", "sqlite")
	out := env.mustRun(t, "history", "--storage", "sqlite")
	if !strings.Contains(out, "s1") {
		t.Errorf("sqlite history missing session:\n%s", out)
	}

	out = env.mustRun(t, "history")
	if !strings.Contains(out, "No sessions yet") {
		t.Errorf("json storage should be separate from sqlite:\n%s", out)
	}
}

func TestRootCommand_Ephemeral(t *testing.T) {
	env := setupTest(t)

	out := env.mustRun(t, "new", "--topic", "hash maps", "--ephemeral")
	if !strings.Contains(out, "session: s1") {
		t.Errorf("ephemeral run output:\n%s", out)
	}
	if out := env.mustRun(t, "history"); !strings.Contains(out, "No sessions yet") {
		t.Errorf("ephemeral run wrote history:\n%s", out)
	}
}

func TestExecute_ReportsErrorOnce(t *testing.T) {
	env := setupTest(t)
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetArgs([]string{"--config", env.cfgPath, "nonexistent-command"})
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	if err := execute(); err == nil {
		t.Fatal("execute() should fail for an unknown command")
	}

	got := env.stderr.String()
	if !strings.Contains(got, "Error: unknown command") {
		t.Errorf("stderr = %q, want the error", got)
	}
	if n := strings.Count(got+out.String(), "Error:"); n != 1 {
		t.Errorf("error printed %d times:\n%s%s", n, got, out.String())
	}
}
