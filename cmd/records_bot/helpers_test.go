package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/records-bot/internal/snapshot"
	"github.com/jonathan/records-bot/internal/types"
)

// executeCommand runs the root command in-process with args and returns its stdout.
// Flag values left over from earlier executions are reset first.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// writeConfig writes a config file rooted in dir and returns its path.
func writeConfig(t *testing.T, dir, extra string) string {
	t.Helper()
	path := filepath.Join(dir, "config.json5")
	content := `{
  // test config
  before_dir: "` + filepath.Join(dir, "before") + `",
  after_dir: "` + filepath.Join(dir, "after") + `",
  log_path: "` + filepath.Join(dir, "log", "log.log") + `",
  memory_path: "` + filepath.Join(dir, "log", "memory.json") + `",
` + extra + `
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// writeSnapshots fills dir/before and dir/after with every table. The men's world 100m
// record differs between them.
func writeSnapshots(t *testing.T, dir string) {
	t.Helper()
	before := snapshot.NewStore(filepath.Join(dir, "before"))
	after := snapshot.NewStore(filepath.Join(dir, "after"))

	old := types.Record{Discipline: "100m", Entry: types.Entry{
		Perf: "9.58", Competitor: "Usain BOLT", DOB: "21 AUG 1986", Country: "JAM", Venue: "Olympiastadion, Berlin", Date: "16 AUG 2009",
	}}
	fresh := types.Record{Discipline: "100m", Entry: types.Entry{
		Perf: "9.55", Competitor: "Noah LYLES", DOB: "18 JUL 1997", Country: "USA", Venue: "Stade de France, Paris", Date: "04 AUG 2024",
	}}

	for _, key := range types.AllTables() {
		require.NoError(t, before.Write(&types.Table{Key: key, Records: []types.Record{old}}))
		rec := old
		if key == (types.TableKey{Sex: types.SexMen, Category: types.CategoryWorld}) {
			rec = fresh
		}
		require.NoError(t, after.Write(&types.Table{Key: key, Records: []types.Record{rec}}))
	}
}
