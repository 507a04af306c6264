package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlchain/internal/testutil"
)

const activeScript = `name: active
dialect: sqlite
clauses:
  - select: [{column: id}, {column: name}]
  - from: {table: users}
  - where: {column: status}
  - eq: active
`

const activeSQL = "SELECT id, name FROM users WHERE status = 'active'"

// writeScript writes a script file into dir and returns its path.
func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// testRootOptions returns options with a fixed trace ID so JSON output is
// stable across runs.
func testRootOptions(format string) *RootOptions {
	return &RootOptions{
		Format: format,
		IDs:    testutil.NewFixedIDGenerator(""),
	}
}

// execute runs a subcommand built by newCmd and returns its stdout.
func execute(t *testing.T, opts *RootOptions, newCmd func(*RootOptions) *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newCmd(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
