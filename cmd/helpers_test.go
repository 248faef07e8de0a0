package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/doomlearn/internal"
	"github.com/iksnae/doomlearn/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// testEnv runs commands against a temp data dir and a scripted backend
type testEnv struct {
	dir     string
	cfgPath string
	backend *internal.FakeBackend
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()
	dir := testutil.CreateTempDir(t)
	t.Setenv("DOOMLEARN_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("DOOMLEARN_API_URL", "")
	t.Setenv("DOOMLEARN_STORAGE", "")

	env := &testEnv{
		dir:     dir,
		cfgPath: filepath.Join(dir, "config.yaml"),
		backend: &internal.FakeBackend{},
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
	}

	prevBackend := newBackend
	newBackend = func(*internal.Config) internal.Backend { return env.backend }
	internal.SetOutput(env.stdout, env.stderr)
	internal.SetLogOutput(io.Discard)

	t.Cleanup(func() {
		newBackend = prevBackend
		internal.SetOutput(os.Stdout, os.Stderr)
		internal.SetLogOutput(os.Stderr)
		resetFlags(rootCmd)
	})
	return env
}

// run executes the root command with args and returns what the command
// wrote to its own output. --config goes first: cobra registers --help and
// --version only after resolving the subcommand, so a trailing --config
// would be read as their value.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetArgs(append([]string{"--config", e.cfgPath}, args...))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.Execute()
	return out.String(), err
}

// mustRun is run that fails the test on error
func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

// resetFlags puts every flag back to its default between executions;
// cobra keeps values and Changed marks on the package-level commands
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func findCommand(name string) *cobra.Command {
	for _, c := range rootCmd.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
