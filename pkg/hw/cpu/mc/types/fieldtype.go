package types

import (
	"fmt"
	"strings"

	"github.com/Manu343726/mipsasm/pkg/hw/cpu"
	"github.com/Manu343726/mipsasm/pkg/utils"
)

// Describes the value domain of an instruction word field: width, signedness
// and, for symbolic types, the names of its values.
//
// Field types are immutable once constructed.
type FieldType struct {
	name    string
	width   int
	signed  bool
	kind    Kind
	symbols map[string]int64
	names   map[int64]string
}

// Initializes a plain (non symbolic) field type. Panics if the width is not in the (0, 32) range
func NewFieldType(name string, width int, signed bool) *FieldType {
	return newFieldType(name, width, signed, Kind_Plain, nil)
}

// Initializes a field type whose values can be referred by name
func NewSymbolicType(name string, width int, symbols map[string]int64) *FieldType {
	if len(symbols) == 0 {
		panic(fmt.Errorf("symbolic type '%v' requires at least one symbol", name))
	}

	return newFieldType(name, width, false, Kind_Symbolic, symbols)
}

func newFieldType(name string, width int, signed bool, kind Kind, symbols map[string]int64) *FieldType {
	if width <= 0 || width >= 32 {
		panic(fmt.Errorf("field type '%v' has invalid width %v, must be in range (0, 32)", name, width))
	}

	t := &FieldType{
		name:   name,
		width:  width,
		signed: signed,
		kind:   kind,
	}

	if symbols != nil {
		t.symbols = symbols
		t.names = utils.InvertedMap(symbols)

		if len(t.names) != len(t.symbols) {
			panic(fmt.Errorf("symbolic type '%v' maps two names to the same value", name))
		}

		for symbol, value := range symbols {
			if !t.Fits(value) {
				panic(fmt.Errorf("symbol '%v' of type '%v' has value %v out of range", symbol, name, value))
			}
		}
	}

	return t
}

// Returns the name of the type
func (t *FieldType) Name() string {
	return t.name
}

// Returns the width of the type in bits
func (t *FieldType) Width() int {
	return t.width
}

// Returns true if values of this type are two's complement signed integers
func (t *FieldType) Signed() bool {
	return t.signed
}

// Returns the kind of value domain of the type
func (t *FieldType) Kind() Kind {
	return t.kind
}

// Returns the bitmask for this type (width least significant bits set)
func (t *FieldType) Mask() uint32 {
	return utils.AllOnes[uint32](t.width)
}

// Returns the minimum and maximum values of the type
func (t *FieldType) Range() (min int64, max int64) {
	if t.signed {
		return -(int64(1) << (t.width - 1)), int64(1)<<(t.width-1) - 1
	}

	return 0, int64(t.Mask())
}

// Returns true if the value fits in the type
func (t *FieldType) Fits(value int64) bool {
	min, max := t.Range()
	return value >= min && value <= max
}

// Returns an error wrapping [cpu.ErrOperandOutOfRange] if the value does not fit in the type
func (t *FieldType) Check(value int64) error {
	if !t.Fits(value) {
		min, max := t.Range()
		return utils.MakeError(cpu.ErrOperandOutOfRange, "%v does not fit in %v [%v, %v]", value, t.name, min, max)
	}

	return nil
}

// Converts a value into its raw (masked, unshifted) two's complement bits. The value must fit
func (t *FieldType) Raw(value int64) uint32 {
	return uint32(value) & t.Mask()
}

// Interprets raw bits extracted from a word as a value of this type, sign extending signed types
func (t *FieldType) FromRaw(raw uint32) int64 {
	raw &= t.Mask()

	if t.signed {
		return utils.SignExtend(uint64(raw), t.width)
	}

	return int64(raw)
}

// Returns the value associated with a symbol
func (t *FieldType) Symbol(name string) (int64, error) {
	if t.kind != Kind_Symbolic {
		return 0, utils.MakeError(cpu.ErrInvalidOperand, "'%v' used as a %v operand, which is not symbolic", name, t.name)
	}

	if value, ok := t.symbols[name]; ok {
		return value, nil
	}

	return 0, utils.MakeError(cpu.ErrInvalidOperand, "unknown %v symbol '%v'", t.name, name)
}

// Returns the symbol associated with a value, if any
func (t *FieldType) SymbolName(value int64) (string, bool) {
	name, ok := t.names[value]
	return name, ok
}

// Returns all symbols of the type ordered by value
func (t *FieldType) Symbols() []string {
	return utils.KeysSortedByValue(t.symbols)
}

// Returns true if an absolute target can be reached from an instruction, both given
// as word indices. Only the low bits covered by the type can change.
func (t *FieldType) InRange(from, to uint32) bool {
	return (from^to)&^t.Mask() == 0
}

func (t *FieldType) String() string {
	var builder strings.Builder

	builder.WriteString(t.name)
	builder.WriteString(fmt.Sprintf(" (%v bits", t.width))

	if t.signed {
		builder.WriteString(", signed")
	}

	if t.kind != Kind_Plain {
		builder.WriteString(", ")
		builder.WriteString(strings.ToLower(t.kind.String()))
	}

	builder.WriteString(")")
	return builder.String()
}
