package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv runs commands against a fresh data and config directory.
type testEnv struct {
	t         *testing.T
	dataDir   string
	configDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{t: t, dataDir: t.TempDir(), configDir: t.TempDir()}
}

// run executes the root command with args and returns its output.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--data-dir", e.dataDir, "--config-dir", e.configDir}, args...))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when a command fails.
	require.NoError(e.t, closeCurrent(rootCmd, nil))
	return buf.String(), err
}

// mustRun fails the test when the command fails.
func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, out)
	return out
}

// create runs a command that prints "id: <id>" and returns the id.
func (e *testEnv) create(args ...string) string {
	e.t.Helper()
	return parseID(e.t, e.mustRun(args...))
}

var idLine = regexp.MustCompile(`(?m)^id: (\S+)$`)

func parseID(t *testing.T, out string) string {
	t.Helper()
	m := idLine.FindStringSubmatch(out)
	require.Len(t, m, 2, "no id in output: %s", out)
	return m[1]
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "raggamuffin", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{
		"version", "schema", "source-type", "source", "entity", "document",
		"event", "chunk", "set", "embed", "ingest", "verify", "settings",
	} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "data-dir", "config-dir"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRequireApp_WithoutStore(t *testing.T) {
	require.Nil(t, current)
	_, err := requireApp()
	assert.EqualError(t, err, "store not opened")
}

func TestRoot_ClosesStoreAfterCommand(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("source-type", "list")
	assert.Nil(t, current)

	_, err := env.run("source", "get", "missing")
	assert.Error(t, err)
	assert.Nil(t, current)
}

func TestRoot_WritesDatabaseToDataDir(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("schema")

	assert.Contains(t, out, filepath.Join(env.dataDir, "raggamuffin.db"))
	assert.FileExists(t, filepath.Join(env.dataDir, "raggamuffin.db"))
}

func TestRoot_MemoryConfigDir(t *testing.T) {
	env := newTestEnv(t)
	env.configDir = memoryConfigDir

	env.mustRun("settings", "chunker", "300", "30")
	out := env.mustRun("settings")

	// Nothing is persisted between runs.
	assert.Contains(t, out, "Size:    1000")
}
