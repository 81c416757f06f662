package mc

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/Manu343726/mipsasm/pkg/hw/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imms(values ...int64) []Operand {
	result := make([]Operand, len(values))

	for i, value := range values {
		result[i] = Imm(value)
	}

	return result
}

func TestAssembler_Emit(t *testing.T) {
	const (
		rd = 10
		rs = 20
		rt = 30
	)

	tests := []struct {
		name     string
		mnemonic string
		operands []int64
		expected uint32
	}{
		{"add", "add", []int64{rd, rs, rt}, rs<<21 | rt<<16 | rd<<11 | 0x20},
		{"addi", "addi", []int64{rt, rs, 30}, 0x08<<26 | rs<<21 | rt<<16 | 30},
		{"addi negative immediate", "addi", []int64{rt, rs, -30}, 0x08<<26 | rs<<21 | rt<<16 | (0x10000 - 30)},
		{"addiu", "addiu", []int64{rt, rs, 30}, 0x09<<26 | rs<<21 | rt<<16 | 30},
		{"addiu negative immediate", "addiu", []int64{rt, rs, -30}, 0x09<<26 | rs<<21 | rt<<16 | (0x10000 - 30)},
		{"addu", "addu", []int64{rd, rs, rt}, rs<<21 | rt<<16 | rd<<11 | 0x21},
		{"and", "and", []int64{rd, rs, rt}, rs<<21 | rt<<16 | rd<<11 | 0x24},
		{"andi", "andi", []int64{rt, rs, 0xcdef}, 0x0c<<26 | rs<<21 | rt<<16 | 0xcdef},
		{"bc0f", "bc0f", []int64{30}, 0x10<<26 | 0x08<<21 | 30},
		{"bc1f", "bc1f", []int64{30}, 0x11<<26 | 0x08<<21 | 30},
		{"bc2f", "bc2f", []int64{30}, 0x12<<26 | 0x08<<21 | 30},
		{"bc0t", "bc0t", []int64{30}, 0x10<<26 | 0x08<<21 | 0x01<<16 | 30},
		{"bc1t", "bc1t", []int64{30}, 0x11<<26 | 0x08<<21 | 0x01<<16 | 30},
		{"bc2t", "bc2t", []int64{30}, 0x12<<26 | 0x08<<21 | 0x01<<16 | 30},
		{"bc0fl", "bc0fl", []int64{30}, 0x10<<26 | 0x08<<21 | 0x02<<16 | 30},
		{"bc1fl", "bc1fl", []int64{30}, 0x11<<26 | 0x08<<21 | 0x02<<16 | 30},
		{"bc2fl", "bc2fl", []int64{30}, 0x12<<26 | 0x08<<21 | 0x02<<16 | 30},
		{"bc0tl", "bc0tl", []int64{30}, 0x10<<26 | 0x08<<21 | 0x03<<16 | 30},
		{"bc1tl", "bc1tl", []int64{30}, 0x11<<26 | 0x08<<21 | 0x03<<16 | 30},
		{"bc2tl", "bc2tl", []int64{30}, 0x12<<26 | 0x08<<21 | 0x03<<16 | 30},
		{"beq", "beq", []int64{rd, rs, 30}, 0x04<<26 | rd<<21 | rs<<16 | 30},
		{"beq negative offset", "beq", []int64{rd, rs, -30}, 0x04<<26 | rd<<21 | rs<<16 | (0x10000 - 30)},
		{"bgez", "bgez", []int64{rd, 30}, 0x01<<26 | rd<<21 | 0x01<<16 | 30},
		{"bgezal negative offset", "bgezal", []int64{rd, -30}, 0x01<<26 | rd<<21 | 0x11<<16 | (0x10000 - 30)},
		{"bgtz", "bgtz", []int64{rd, 30}, 0x07<<26 | rd<<21 | 30},
		{"jr", "jr", []int64{31}, 31<<21 | 0x08},
		{"jalr", "jalr", []int64{rd, rs}, rs<<21 | rd<<11 | 0x09},
		{"sll", "sll", []int64{rd, rt, 4}, rt<<16 | rd<<11 | 4<<6},
		{"syscall", "syscall", []int64{0x12345}, 0x12345<<6 | 0x0c},
		{"teq", "teq", []int64{rs, rt, 0x3ff}, rs<<21 | rt<<16 | 0x3ff<<6 | 0x34},
		{"lw", "lw", []int64{rt, -4, rs}, 0x23<<26 | rs<<21 | rt<<16 | 0xfffc},
		{"lwc1", "lwc1", []int64{2, 8, rs}, 0x31<<26 | rs<<21 | 2<<16 | 8},
		{"mfc0", "mfc0", []int64{rt, 12}, 0x10<<26 | rt<<16 | 12<<11},
		{"dmtc0", "dmtc0", []int64{rt, 14}, 0x10<<26 | 0x05<<21 | rt<<16 | 14<<11},
		{"eret", "eret", nil, 0x10<<26 | 0x10<<21 | 0x18},
		{"nop", "nop", nil, 0},
		{"move", "move", []int64{rt, rs}, 0x08<<26 | rs<<21 | rt<<16},
		{"b", "b", []int64{-1}, 0x04<<26 | 0xffff},
		{"bal", "bal", []int64{2}, 0x01<<26 | 0x11<<16 | 2},
		{"add.s", "add.s", []int64{1, 2, 3}, 0x11<<26 | 16<<21 | 3<<16 | 2<<11 | 1<<6},
		{"sub.d", "sub.d", []int64{1, 2, 3}, 0x11<<26 | 17<<21 | 3<<16 | 2<<11 | 1<<6 | 0x01},
		{"div.s", "div.s", []int64{1, 2, 3}, 0x11<<26 | 16<<21 | 3<<16 | 2<<11 | 1<<6 | 0x03},
		{"ceil.w.d", "ceil.w.d", []int64{4, 6}, 0x11<<26 | 17<<21 | 6<<11 | 4<<6 | 0x0e},
		{"c.lt.s", "c.lt.s", []int64{4, 6}, 0x11<<26 | 16<<21 | 6<<16 | 4<<11 | 0x3c},
		{"cvt.d.w", "cvt.d.w", []int64{4, 6}, 0x11<<26 | 20<<21 | 6<<11 | 4<<6 | 0x21},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			a := NewAssembler()

			word, err := a.Emit(test.mnemonic, imms(test.operands...)...)
			require.NoError(t, err)
			assert.Equal(t, test.expected, word, "got %#08x", word)
			assert.Equal(t, []uint32{test.expected}, a.Words())
			assert.Equal(t, uint32(1), a.PC())
		})
	}
}

func TestAssembler_EmitSymbols(t *testing.T) {
	a := NewAssembler()

	word, err := a.Emit("add", Reg("$t0"), Reg("$a0"), Reg("$a1"))
	require.NoError(t, err)
	assert.Equal(t, uint32(4<<21|5<<16|8<<11|0x20), word)

	word, err = a.Emit("mtc0", Reg("$k0"), Reg("EPC"))
	require.NoError(t, err)
	assert.Equal(t, uint32(0x10<<26|0x04<<21|26<<16|14<<11), word)

	word, err = a.Emit("mul.d", Reg("$f0"), Reg("$f2"), Reg("$f4"))
	require.NoError(t, err)
	assert.Equal(t, uint32(0x11<<26|17<<21|4<<16|2<<11|0<<6|0x02), word)
}

func TestAssembler_DuplexDisambiguation(t *testing.T) {
	a := NewAssembler()

	integer, err := a.Emit("add", Imm(1), Imm(2), Imm(3))
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00000020), integer&0xfc00003f, "integer add is a SPECIAL instruction")

	float, err := a.Emit("add.s", Imm(1), Imm(2), Imm(3))
	require.NoError(t, err)
	assert.Equal(t, uint32(0x46000000), float&0xffe0003f, "add.s is a COP1 instruction")

	_, err = a.Emit("add")
	assert.ErrorIs(t, err, cpu.ErrInvalidOperand)
}

func TestAssembler_LabelOffset(t *testing.T) {
	a := NewAssembler()

	require.NoError(t, a.DefineLabel("foo"))
	_, err := a.Emit("add", imms(10, 20, 30)...)
	require.NoError(t, err)
	_, err = a.Emit("bne", Imm(10), Imm(10), Label("foo"))
	require.NoError(t, err)
	_, err = a.Emit("add", imms(10, 20, 30)...)
	require.NoError(t, err)

	assert.Equal(t, uint32(0xfffe), a.Words()[1]&0xffff)
	assert.Empty(t, a.UnresolvedLabels())
}

func TestAssembler_LabelBackpatchOffset(t *testing.T) {
	a := NewAssembler()

	_, err := a.Emit("bne", Imm(10), Imm(10), Label("foo"))
	require.NoError(t, err)
	_, err = a.Emit("add", imms(10, 20, 30)...)
	require.NoError(t, err)

	assert.Equal(t, []string{"foo"}, a.UnresolvedLabels())
	require.NoError(t, a.DefineLabel("foo"))

	assert.Equal(t, uint32(1), a.Words()[0]&0xffff)
	assert.Equal(t, uint32(0x05<<26|10<<21|10<<16|1), a.Words()[0])
	assert.Empty(t, a.UnresolvedLabels())
}

func TestAssembler_LabelTarget(t *testing.T) {
	a := NewAssembler()

	_, err := a.Emit("add", imms(10, 20, 30)...)
	require.NoError(t, err)
	require.NoError(t, a.DefineLabel("foo"))
	_, err = a.Emit("add", imms(10, 20, 30)...)
	require.NoError(t, err)
	_, err = a.Emit("j", Label("foo"))
	require.NoError(t, err)
	_, err = a.Emit("add", imms(10, 20, 30)...)
	require.NoError(t, err)

	assert.Equal(t, uint32(1), a.Words()[2]&0x3ffffff)
}

func TestAssembler_LabelBackpatchTarget(t *testing.T) {
	a := NewAssembler()

	_, err := a.Emit("j", Label("foo"))
	require.NoError(t, err)
	_, err = a.Emit("add", imms(10, 20, 30)...)
	require.NoError(t, err)
	require.NoError(t, a.DefineLabel("foo"))

	assert.Equal(t, uint32(2), a.Words()[0]&0x3ffffff)
	assert.Equal(t, uint32(0x08000002), a.Words()[0])
}

func TestAssembler_BackpatchMultipleSites(t *testing.T) {
	a := NewAssembler()

	_, err := a.Emit("beq", Imm(1), Imm(2), Label("end"))
	require.NoError(t, err)
	_, err = a.Emit("jal", Label("end"))
	require.NoError(t, err)
	_, err = a.Emit("bgez", Imm(3), Label("end"))
	require.NoError(t, err)
	require.NoError(t, a.DefineLabel("end"))

	assert.Equal(t, uint32(2), a.Words()[0]&0xffff)
	assert.Equal(t, uint32(3), a.Words()[1]&0x3ffffff)
	assert.Equal(t, uint32(0), a.Words()[2]&0xffff)
}

func TestAssembler_BackpatchWithOrigin(t *testing.T) {
	a := NewAssembler()
	require.NoError(t, a.SetOrigin(0x1000))

	_, err := a.Emit("bne", Imm(10), Imm(10), Label("foo"))
	require.NoError(t, err)
	_, err = a.Emit("j", Label("foo"))
	require.NoError(t, err)
	_, err = a.Emit("nop")
	require.NoError(t, err)
	require.NoError(t, a.DefineLabel("foo"))

	assert.Equal(t, uint32(2), a.Words()[0]&0xffff)
	assert.Equal(t, uint32(0x1000>>2+3), a.Words()[1]&0x3ffffff)

	address, ok := a.LabelAddress("foo")
	require.True(t, ok)
	assert.Equal(t, uint32(0x100c), address)
}

func TestAssembler_SetOrigin(t *testing.T) {
	a := NewAssembler()

	require.NoError(t, a.SetOrigin(0x80000180))
	assert.Equal(t, uint32(0x80000180>>2), a.PC())
	assert.Equal(t, uint32(0x80000180), a.Address())

	assert.ErrorIs(t, a.SetOrigin(0x1002), cpu.ErrInvalidOperand)
	assert.Equal(t, uint32(0x80000180), a.Address(), "a failed origin change keeps the previous one")

	_, err := a.Emit("nop")
	require.NoError(t, err)
	require.NoError(t, a.SetOrigin(0))
	assert.Len(t, a.Words(), 1, "origin changes do not affect emitted words")
}

func TestAssembler_DuplicateLabel(t *testing.T) {
	a := NewAssembler()

	require.NoError(t, a.DefineLabel("foo"))
	assert.ErrorIs(t, a.DefineLabel("foo"), cpu.ErrDuplicateLabel)
}

func TestAssembler_JumpOutOfRange(t *testing.T) {
	t.Run("immediate target", func(t *testing.T) {
		a := NewAssembler()

		_, err := a.Emit("j", Imm(0x10000000))
		assert.ErrorIs(t, err, cpu.ErrJumpOutOfRange)
		assert.Empty(t, a.Words())
	})

	t.Run("backpatched target", func(t *testing.T) {
		a := NewAssembler()
		require.NoError(t, a.SetOrigin(0x0ffffff8))

		_, err := a.Emit("j", Label("far"))
		require.NoError(t, err)
		_, err = a.Emit("nop")
		require.NoError(t, err)

		assert.ErrorIs(t, a.DefineLabel("far"), cpu.ErrJumpOutOfRange)

		_, ok := a.LabelAddress("far")
		assert.True(t, ok, "the label is defined even if some reference could not be patched")
	})

	t.Run("misaligned target", func(t *testing.T) {
		a := NewAssembler()

		_, err := a.Emit("j", Imm(0x1002))
		assert.ErrorIs(t, err, cpu.ErrInvalidOperand)
	})

	t.Run("aligned target", func(t *testing.T) {
		a := NewAssembler()

		word, err := a.Emit("j", Imm(0x7000))
		require.NoError(t, err)
		assert.Equal(t, uint32(0x08001c00), word)
	})
}

func TestAssembler_OffsetOutOfRange(t *testing.T) {
	t.Run("forward", func(t *testing.T) {
		a := NewAssembler()

		_, err := a.Emit("bne", Imm(1), Imm(1), Label("far"))
		require.NoError(t, err)
		require.NoError(t, a.SetOrigin(0x40000))

		assert.ErrorIs(t, a.DefineLabel("far"), cpu.ErrOperandOutOfRange)
	})

	t.Run("backward", func(t *testing.T) {
		a := NewAssembler()

		require.NoError(t, a.DefineLabel("far"))
		require.NoError(t, a.SetOrigin(0x40000))

		_, err := a.Emit("bne", Imm(1), Imm(1), Label("far"))
		assert.ErrorIs(t, err, cpu.ErrOperandOutOfRange)
		assert.Empty(t, a.Words())
	})
}

func TestAssembler_OperandErrors(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		operands []Operand
		err      error
	}{
		{"unknown mnemonic", "frobnicate", nil, cpu.ErrUnknownMnemonic},
		{"missing suffix", "abs", imms(1, 2), cpu.ErrUnknownMnemonic},
		{"too few operands", "add", imms(1, 2), cpu.ErrInvalidOperand},
		{"too many operands", "jr", imms(1, 2), cpu.ErrInvalidOperand},
		{"register out of range", "add", imms(32, 1, 1), cpu.ErrOperandOutOfRange},
		{"signed immediate out of range", "addi", imms(1, 2, 0x9000), cpu.ErrOperandOutOfRange},
		{"unsigned immediate negative", "ori", imms(1, 2, -1), cpu.ErrOperandOutOfRange},
		{"unknown register", "jr", []Operand{Reg("$nope")}, cpu.ErrInvalidOperand},
		{"symbol for plain field", "addi", []Operand{Imm(1), Imm(2), Label("foo")}, cpu.ErrInvalidOperand},
		{"float register for integer field", "jr", []Operand{Reg("$f0")}, cpu.ErrInvalidOperand},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			a := NewAssembler()

			_, err := a.Emit(test.mnemonic, test.operands...)
			assert.ErrorIs(t, err, test.err)
			assert.Empty(t, a.Words())
			assert.Equal(t, uint32(0), a.PC())
		})
	}
}

func TestAssembler_FailedEmitLeavesNoReference(t *testing.T) {
	a := NewAssembler()

	_, err := a.Emit("beq", Reg("$nope"), Imm(0), Label("foo"))
	require.Error(t, err)
	assert.Empty(t, a.UnresolvedLabels())

	_, err = a.Emit("nop")
	require.NoError(t, err)
	require.NoError(t, a.DefineLabel("foo"))
	assert.Equal(t, []uint32{0}, a.Words())
}

func TestAssembler_ReferenceLabel(t *testing.T) {
	a := NewAssembler()
	require.NoError(t, a.SetOrigin(0x100))

	assert.Equal(t, uint32(0x104), a.ReferenceLabel("later"))
	assert.Equal(t, []string{"later"}, a.UnresolvedLabels())

	_, err := a.Push(0x10000000) // beq $0, $0, ?
	require.NoError(t, err)
	require.NoError(t, a.DefineLabel("later"))
	assert.Equal(t, uint32(0x10000000), a.Words()[0], "offset to the next instruction is zero")

	assert.Equal(t, uint32(0x104), a.ReferenceLabel("later"))
	assert.Empty(t, a.UnresolvedLabels())
}

func TestAssembler_ReferenceLabel_WithoutInstruction(t *testing.T) {
	a := NewAssembler()

	assert.Equal(t, uint32(4), a.ReferenceLabel("foo"))

	err := a.DefineLabel("foo")
	assert.ErrorIs(t, err, cpu.ErrInvalidOperand)
	assert.Empty(t, a.Words())

	address, ok := a.LabelAddress("foo")
	require.True(t, ok, "the label is defined even if the reference could not be patched")
	assert.Equal(t, uint32(0), address)
}

func TestAssembler_Push(t *testing.T) {
	a := NewAssembler()

	word, err := a.Push(-1)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xffffffff), word)

	word, err = a.Push(0xdeadbeef)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), word)

	_, err = a.Push(1 << 32)
	assert.ErrorIs(t, err, cpu.ErrInvalidOperand)

	_, err = a.Push(-(1 << 31) - 1)
	assert.ErrorIs(t, err, cpu.ErrInvalidOperand)

	assert.Equal(t, []uint32{0xffffffff, 0xdeadbeef}, a.Words())
	assert.Equal(t, uint32(2), a.PC())
}

func TestAssembler_UnresolvedLabelsSorted(t *testing.T) {
	a := NewAssembler()

	_, err := a.Emit("b", Label("zeta"))
	require.NoError(t, err)
	_, err = a.Emit("j", Label("alpha"))
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "zeta"}, a.UnresolvedLabels())
}

func TestAssembler_Logger(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buffer, &slog.HandlerOptions{Level: slog.LevelDebug}))

	a := NewAssembler(WithLogger(logger))

	_, err := a.Emit("b", Label("foo"))
	require.NoError(t, err)
	require.NoError(t, a.DefineLabel("foo"))

	assert.Contains(t, buffer.String(), "label defined")
	assert.Contains(t, buffer.String(), "label=foo")
	assert.Contains(t, buffer.String(), "backpatch")
}
