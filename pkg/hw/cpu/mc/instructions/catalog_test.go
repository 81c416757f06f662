package instructions

import (
	"strconv"
	"strings"
	"testing"

	"github.com/Manu343726/mipsasm/pkg/hw/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Lookup(t *testing.T) {
	tests := []struct {
		mnemonic string
		bound    uint32
	}{
		{"j", 0x08000000},
		{"add", 0x00000020},
		{"add.s", 0x46000000},
		{"add.d", 0x46200000},
		{"div", 0x0000001a},
		{"div.s", 0x46000003},
		{"sub.d", 0x46200001},
		{"c.f.s", 0x46000030},
		{"c.ngt.d", 0x4620003f},
		{"cvt.s.w", 0x46800020},
		{"cvt.d.l", 0x46a00021},
		{"round.l.s", 0x46000008},
		{"bal", 0x04110000},
	}

	for _, test := range tests {
		t.Run(test.mnemonic, func(t *testing.T) {
			descriptor, err := Instructions.Lookup(test.mnemonic)
			require.NoError(t, err)
			assert.True(t, descriptor.IsComplete())
			assert.Equal(t, test.bound, descriptor.EncodeBound(), "got %#08x", descriptor.EncodeBound())
		})
	}
}

func TestCatalog_LookupErrors(t *testing.T) {
	for _, mnemonic := range []string{
		"frobnicate",
		"",
		"abs",     // requires a format
		"ceil.w",  // requires a format after the function
		"add.q",   // unknown format
		"add.s.d", // too many suffixes
		"j.s",     // takes no suffixes
		"add.",    // empty suffix
		"c.eq.w",  // c only accepts single and double formats
	} {
		t.Run(mnemonic, func(t *testing.T) {
			_, err := Instructions.Lookup(mnemonic)
			assert.ErrorIs(t, err, cpu.ErrUnknownMnemonic)
		})
	}
}

func TestCatalog_EntryKinds(t *testing.T) {
	tests := []struct {
		mnemonic string
		kind     EntryKind
	}{
		{"j", EntryKind_Simple},
		{"nop", EntryKind_Simple},
		{"abs", EntryKind_Suffixed},
		{"cvt", EntryKind_Suffixed},
		{"add", EntryKind_Duplex},
		{"div", EntryKind_Duplex},
		{"sub", EntryKind_Duplex},
	}

	for _, test := range tests {
		t.Run(test.mnemonic, func(t *testing.T) {
			entry, err := Instructions.Entry(test.mnemonic)
			require.NoError(t, err)
			assert.Equal(t, test.kind, entry.Kind)
		})
	}
}

func TestCatalog_Forms(t *testing.T) {
	cvt, err := Instructions.Entry("cvt")
	require.NoError(t, err)

	forms := cvt.Forms()
	require.Len(t, forms, 16)
	assert.Equal(t, "cvt.d.s", forms[0].Mnemonic)
	assert.Equal(t, "cvt.w.l", forms[15].Mnemonic)

	add, err := Instructions.Entry("add")
	require.NoError(t, err)

	names := []string{}
	for _, form := range add.Forms() {
		names = append(names, form.Mnemonic)
	}
	assert.Equal(t, []string{"add", "add.s", "add.d"}, names)

	seen := map[string]bool{}
	for _, form := range Instructions.Forms() {
		assert.False(t, seen[form.Mnemonic], "duplicated form %v", form.Mnemonic)
		seen[form.Mnemonic] = true
		assert.True(t, form.Descriptor.IsComplete())

		fromLookup, err := Instructions.Lookup(form.Mnemonic)
		require.NoError(t, err)
		assert.Equal(t, form.Descriptor.EncodeBound(), fromLookup.EncodeBound(), form.Mnemonic)
	}
}

func TestCatalog_IsAbsoluteJump(t *testing.T) {
	assert.True(t, Instructions.IsAbsoluteJump(0x02))
	assert.True(t, Instructions.IsAbsoluteJump(0x03))
	assert.False(t, Instructions.IsAbsoluteJump(0x04))
	assert.False(t, Instructions.IsAbsoluteJump(0x00))
}

func TestNewCatalog_Malformed(t *testing.T) {
	assert.Panics(t, func() {
		NewCatalog([]*Entry{
			Instruction("j", majorOp(0x02)),
			Instruction("j", majorOp(0x03)),
		})
	})

	assert.Panics(t, func() {
		Duplex("add", specialOp(0x20), specialOp(0x21))
	})
}

func TestCatalog_Documentation(t *testing.T) {
	xori, err := Instructions.Entry("xori")
	require.NoError(t, err)

	layout := xori.Complete.Layout()
	require.Len(t, layout, 4)
	assert.Equal(t, "uimm", layout[0].Name)
	assert.Equal(t, "001110", layout[3].Name)

	doc, err := xori.Forms()[0].Documentation(0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, "xori rt, rs, uimm\n"))
	assert.Contains(t, doc, "001110")
	assert.Contains(t, doc, "uimm")

	all, err := Instructions.Documentation(2)
	require.NoError(t, err)
	assert.Contains(t, all, "  c.eq.d fs, ft")
}

func TestCatalog_Export(t *testing.T) {
	exported := Instructions.Export()
	require.Len(t, exported, len(Instructions.Forms()))

	assert.Equal(t, FormInfo{
		Mnemonic: "j",
		Kind:     "simple",
		Match:    "0x08000000",
		Mask:     "0xfc000000",
		Fields:   "0xffffffff",
		Bound:    map[string]uint32{"opcode": 2},
		Operands: []string{"target"},
	}, exported[0])

	for _, info := range exported {
		match, err := strconv.ParseUint(info.Match, 0, 32)
		require.NoError(t, err)
		mask, err := strconv.ParseUint(info.Mask, 0, 32)
		require.NoError(t, err)

		descriptor, err := Instructions.Lookup(info.Mnemonic)
		require.NoError(t, err, info.Mnemonic)
		word, err := descriptor.Encode(make([]int64, len(descriptor.Operands()))...)
		require.NoError(t, err, info.Mnemonic)
		assert.Equal(t, match, uint64(word)&mask, "%v: encoded words match the exported match/mask pair", info.Mnemonic)
	}
}
