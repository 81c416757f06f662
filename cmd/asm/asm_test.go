package asm

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Manu343726/mipsasm/pkg/hw/cpu"
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.DiscardHandler)

func TestAssemble(t *testing.T) {
	var output bytes.Buffer
	opened := false

	count, err := Assemble(strings.NewReader("loop: addiu $t0, $t0, -1\n bnez $t0, loop\n"), func() (io.WriteCloser, error) {
		opened = true
		return nopCloser{&output}, nil
	}, discard)

	require.NoError(t, err)
	assert.True(t, opened)
	assert.Equal(t, 2, count)
	assert.Equal(t, []byte{0x25, 0x08, 0xff, 0xff, 0x15, 0x00, 0xff, 0xfe}, output.Bytes())
}

func TestAssemble_DoesNotOpenOutputOnError(t *testing.T) {
	count, err := Assemble(strings.NewReader("j nowhere"), func() (io.WriteCloser, error) {
		t.Fatal("output opened for a source that does not assemble")
		return nil, nil
	}, discard)

	assert.ErrorIs(t, err, cpu.ErrUnresolvedLabel)
	assert.Zero(t, count)
}

func TestOpenOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program.bin")

	count, err := Assemble(strings.NewReader(".word 1, 2, 3"), func() (io.WriteCloser, error) { return OpenOutput(path) }, discard)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	words, err := mc.ReadWords(file, -1)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, words)
}
