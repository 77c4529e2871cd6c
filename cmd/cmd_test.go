package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	defer resetFlags(rootCmd)

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores flag defaults so that consecutive executions of the
// shared command tree do not see each other's flags.
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

func TestCommands_StudyFlow(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	db := filepath.Join(dir, "data", "cramkit.db")
	csvPath := filepath.Join(dir, "items.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"id,topic,category,weight,difficulty,prompt\n"+
			"a1,renal,pharm,5,2,Loop diuretic site of action\n"+
			"a2,renal,pharm,3,1,\n"+
			"b1,gait,neuro,1,3,\n"), 0o644))

	out, err := execute(t, "--db", db, "catalog", "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 items across 2 topics.")

	out, err = execute(t, "--db", db, "review", "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "a1")
	assert.Contains(t, out, "a2")
	assert.NotContains(t, out, "b1")

	out, err = execute(t, "--db", db, "session", "start", "--mode", "weak")
	require.NoError(t, err)
	sessionID := strings.TrimSpace(out)
	require.NotEmpty(t, sessionID)

	out, err = execute(t, "--db", db, "answer", "a1", "--wrong", "--session", sessionID)
	require.NoError(t, err)
	assert.Contains(t, out, "a1: wrong, streak 0")

	_, err = execute(t, "--db", db, "answer", "a2", "--correct", "--wrong")
	require.Error(t, err)

	out, err = execute(t, "--db", db, "session", "end", sessionID)
	require.NoError(t, err)
	assert.Contains(t, out, "0/1 correct")

	out, err = execute(t, "--db", db, "session", "list")
	require.NoError(t, err)
	assert.Contains(t, out, sessionID)

	out, err = execute(t, "--db", db, "weak")
	require.NoError(t, err)
	assert.Contains(t, out, "a1")
	assert.Contains(t, out, "in 1d", "a wrong first answer is due again within hours")

	out, err = execute(t, "--db", db, "review")
	require.NoError(t, err)
	assert.Contains(t, out, "new")

	out, err = execute(t, "--db", db, "catalog", "list", "--category", "pharm", "--topic", "renal")
	require.NoError(t, err)
	assert.Contains(t, out, "a2")
	assert.NotContains(t, out, "b1")

	_, err = execute(t, "--db", db, "catalog", "list", "--category", "cardio")
	require.Error(t, err)

	out, err = execute(t, "--db", db, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "3 items")

	out, err = execute(t, "--db", db, "remind", "--once")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing due.")

	_, err = execute(t, "--db", db, "reset")
	require.Error(t, err)

	out, err = execute(t, "--db", db, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")

	out, err = execute(t, "--db", db, "weak")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to review.")

	out, err = execute(t, "--db", db, "catalog", "list", "--category", "neuro")
	require.NoError(t, err)
	assert.Contains(t, out, "b1")
}

func TestCommands_Version(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", dir)

	out, err := execute(t, "--db", filepath.Join(dir, "x.db"), "version")
	require.NoError(t, err)
	assert.Equal(t, "cramkit (devel)\n", out)
}
