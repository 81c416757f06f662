package types

// Represents the value domain of an instruction word field
type Kind uint

const (
	// Plain integer, signed or unsigned
	Kind_Plain Kind = iota
	// Integer values with symbolic names (registers, float formats...)
	Kind_Symbolic
	// PC-relative branch offset, in instructions
	Kind_Offset
	// Absolute jump target, in instructions within the current 256MB region
	Kind_Target
)

func (k Kind) String() string {
	switch k {
	case Kind_Plain:
		return "Plain"
	case Kind_Symbolic:
		return "Symbolic"
	case Kind_Offset:
		return "Offset"
	case Kind_Target:
		return "Target"
	}

	panic("unreachable")
}
