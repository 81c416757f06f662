package registers

type RegisterClass uint

const (
	// General purpose integer registers
	RegisterClass_GeneralPurpose RegisterClass = iota

	// Floating point unit (COP1) registers
	RegisterClass_FloatingPoint

	// System control coprocessor (COP0) registers
	RegisterClass_SystemControl

	// Number of register classes
	TOTAL_REGISTER_CLASSES
)

func (rc RegisterClass) String() string {
	switch rc {
	case RegisterClass_GeneralPurpose:
		return "general purpose registers"
	case RegisterClass_FloatingPoint:
		return "floating point registers"
	case RegisterClass_SystemControl:
		return "system control registers"
	}

	panic("unreachable")
}
