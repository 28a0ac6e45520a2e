package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexwohletz/pandas-utils/cmd"
	"github.com/alexwohletz/pandas-utils/update"
)

func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rc := cmd.NewRootCommand(strings.NewReader(""), &out, &out)
	rc.SetArgs(args)
	err := rc.Execute()
	return out.String(), err
}

func TestRootCommandHelp(t *testing.T) {
	out, err := execRoot(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "--target-key")
	assert.Contains(t, out, "PANDAS_UTILS_")
}

func TestRootCommandRun(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "left.csv")
	right := filepath.Join(dir, "right.csv")
	require.NoError(t, os.WriteFile(left, []byte("key,key2,attr12\na,5,\nb,14,10\n"), 0o600))
	require.NoError(t, os.WriteFile(right, []byte("key,key2,attr21\na,5,19\nb,14,16\n"), 0o600))

	conf := filepath.Join(dir, "updatejoin.toml")
	require.NoError(t, os.WriteFile(conf, []byte(`
update-col = "attr12"
source-col = "attr21"
target-key = ["key"]
on = ["key", "key2"]
`), 0o600))

	outPath := filepath.Join(dir, "out.csv")
	_, err := execRoot(t, "--config", conf, "--left", left, "--right", right, "--out", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "key,key2,attr12\na,5,19\nb,14,10\n", string(data))

	_, err = execRoot(t, "--config", conf, "--left", left, "--right", right, "--on", "key2", "--target-key", "key2",
		"--update-col", "key")
	require.NoError(t, err)

	_, err = execRoot(t, "--left", left, "--right", right, "--update-col", "x", "--source-col", "nope",
		"--target-key", "key", "--on", "key")
	require.Error(t, err)
	assert.True(t, update.IsKind(err, update.ColumnNotFound))
}
