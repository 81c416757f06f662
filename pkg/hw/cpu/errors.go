package cpu

import "errors"

// Error kinds reported by the assembler and disassembler. All failures wrap one
// of these, so callers can check them with errors.Is.
var (
	// Wrong value type for an operand, or a misaligned origin/jump target
	ErrInvalidOperand = errors.New("invalid operand")
	// Value outside of the declared range of a field
	ErrOperandOutOfRange = errors.New("operand out of range")
	// Absolute jump target outside of the 256MB region of the jump instruction
	ErrJumpOutOfRange = errors.New("jump out of range")
	// Label defined twice
	ErrDuplicateLabel = errors.New("label already defined")
	// No catalog entry for a mnemonic, or an invalid mnemonic suffix
	ErrUnknownMnemonic = errors.New("unknown mnemonic")
	// No instruction in the catalog matches a raw word
	ErrInvalidInstruction = errors.New("invalid instruction")
	// Label referenced but never defined
	ErrUnresolvedLabel = errors.New("unresolved label")
)
