package mc

import (
	"fmt"
	"strings"

	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/fields"
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/instructions"
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/types"
	"github.com/Manu343726/mipsasm/pkg/utils"
)

// Text printed in listings for words that do not decode to any instruction
const InvalidInstructionText = "???"

// Value of an operand field extracted from a word
type OperandValue struct {
	Field *fields.WordField
	Value int64
}

func (o OperandValue) Name() string {
	return o.Field.Name()
}

// A raw word decoded into an instruction form and its operand values
type DecodedInstruction struct {
	Raw        uint32
	Mnemonic   string
	Descriptor *instructions.InstructionDescriptor
	Operands   []OperandValue
}

// Returns the value of the operand with the given field name
func (d *DecodedInstruction) Operand(name string) (int64, bool) {
	for _, operand := range d.Operands {
		if operand.Name() == name {
			return operand.Value, true
		}
	}

	return 0, false
}

// Returns the (field name, value) pairs of the operands, in operand order
func (d *DecodedInstruction) Pairs() []utils.Pair[string, int64] {
	return utils.Map(d.Operands, func(o OperandValue) utils.Pair[string, int64] {
		return utils.MakePair(o.Name(), o.Value)
	})
}

// Formats an operand value. Branch offsets and jump targets are printed as the
// absolute address they point to, given the address of the instruction
func formatOperand(field *fields.WordField, value int64, vaddr uint64) string {
	switch field.Type().Kind() {
	case types.Kind_Symbolic:
		if name, ok := field.Type().SymbolName(value); ok {
			return name
		}
	case types.Kind_Offset:
		return fmt.Sprintf("%#x", vaddr+4+uint64(value<<2))
	case types.Kind_Target:
		return fmt.Sprintf("%#x", ((vaddr+4)&0xfffffffff0000000)|uint64(value<<2))
	}

	return utils.FormatIntHex(value)
}

// Returns the assembly text of the instruction located at the given virtual address,
// e.g. "lw $t0, 0x10($sp)"
func (d *DecodedInstruction) Format(vaddr uint64) string {
	var builder strings.Builder

	builder.WriteString(d.Mnemonic)

	for i, operand := range d.Operands {
		text := formatOperand(operand.Field, operand.Value, vaddr)

		switch {
		case operand.Field.IsPointer():
			builder.WriteString("(")
			builder.WriteString(text)
			builder.WriteString(")")
		case i == 0:
			builder.WriteString(" ")
			builder.WriteString(text)
		default:
			builder.WriteString(", ")
			builder.WriteString(text)
		}
	}

	return builder.String()
}

func (d *DecodedInstruction) String() string {
	return d.Format(0)
}

// Decodes raw words back into instructions
type Disassembler struct {
	table *DecodeTable
}

func NewDisassembler(catalog *instructions.Catalog) *Disassembler {
	return &Disassembler{
		table: NewDecodeTable(catalog),
	}
}

// Returns the decode table used by the disassembler
func (d *Disassembler) Table() *DecodeTable {
	return d.table
}

// Decodes a word. Fails with [cpu.ErrInvalidInstruction] if no instruction matches
func (d *Disassembler) Decode(word uint32) (*DecodedInstruction, error) {
	candidate, err := d.table.Lookup(word)
	if err != nil {
		return nil, err
	}

	return &DecodedInstruction{
		Raw:        word,
		Mnemonic:   candidate.Mnemonic,
		Descriptor: candidate.Descriptor,
		Operands: utils.Map(candidate.Descriptor.Operands(), func(field *fields.WordField) OperandValue {
			return OperandValue{Field: field, Value: field.Decode(word)}
		}),
	}, nil
}

// Returns a listing line for the word: virtual address, raw word and instruction text,
// or "???" if the word cannot be decoded
func (d *Disassembler) Disassemble(word uint32, vaddr uint64) string {
	text := InvalidInstructionText

	if decoded, err := d.Decode(word); err == nil {
		text = decoded.Format(vaddr)
	}

	return fmt.Sprintf("0x%016x: %08x %v", vaddr, word, text)
}

// Returns the listing lines of a sequence of words loaded at the given virtual address
func (d *Disassembler) DisassembleWords(words []uint32, origin uint64) []string {
	lines := make([]string, len(words))

	for i, word := range words {
		lines[i] = d.Disassemble(word, origin+uint64(i)*4)
	}

	return lines
}

// Disassembler of the default instruction catalog
var DefaultDisassembler = NewDisassembler(instructions.Instructions)

// Decodes a word using the default instruction catalog
func Decode(word uint32) (*DecodedInstruction, error) {
	return DefaultDisassembler.Decode(word)
}

// Returns the listing line of a word using the default instruction catalog
func Disassemble(word uint32, vaddr uint64) string {
	return DefaultDisassembler.Disassemble(word, vaddr)
}

// Returns the listing lines of a sequence of words using the default instruction catalog
func DisassembleWords(words []uint32, origin uint64) []string {
	return DefaultDisassembler.DisassembleWords(words, origin)
}
