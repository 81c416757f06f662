package mc

import (
	"fmt"

	"github.com/Manu343726/mipsasm/pkg/utils"
)

type OperandKind uint

const (
	// Integer value, used as is
	OperandKind_Immediate OperandKind = iota
	// Name resolved by the field it is given to: a register or format name for
	// symbolic fields, a label for offset and target fields
	OperandKind_Symbol
)

func (k OperandKind) String() string {
	switch k {
	case OperandKind_Immediate:
		return "Immediate"
	case OperandKind_Symbol:
		return "Symbol"
	}

	panic("unreachable")
}

// An instruction operand as given to the assembler
type Operand struct {
	Kind   OperandKind
	Value  int64
	Symbol string
}

// Returns an immediate operand
func Imm(value int64) Operand {
	return Operand{Kind: OperandKind_Immediate, Value: value}
}

// Returns a register (or any symbolic field value) operand, e.g. Reg("$t0")
func Reg(name string) Operand {
	return Operand{Kind: OperandKind_Symbol, Symbol: name}
}

// Returns a label operand, for branch offsets and jump targets
func Label(name string) Operand {
	return Operand{Kind: OperandKind_Symbol, Symbol: name}
}

func (o Operand) String() string {
	if o.Kind == OperandKind_Symbol {
		return o.Symbol
	}

	return utils.FormatIntHex(o.Value)
}

// Returns a Go-syntax like representation of the operand, used in logs
func (o Operand) GoString() string {
	return fmt.Sprintf("%v(%v)", o.Kind, o)
}
