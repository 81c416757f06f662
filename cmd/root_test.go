package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CommandError(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "mipsasm.log")
	source := filepath.Join(dir, "broken.s")
	output := filepath.Join(dir, "out.bin")
	require.NoError(t, os.WriteFile(source, []byte("start: frobnicate $t0\n"), 0o644))

	RootCmd.SetArgs([]string{"--log-file", logFile, "asm", source, "-o", output})
	t.Cleanup(func() { RootCmd.SetArgs(nil) })

	err := run()
	assert.ErrorContains(t, err, "unknown mnemonic")
	assert.NoError(t, closeLog(), "the log file is released by run")

	_, err = os.Stat(output)
	assert.ErrorIs(t, err, os.ErrNotExist, "no output is written for a source that does not assemble")

	contents, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `"msg":"label defined"`)
}
