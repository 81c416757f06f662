package instructions

import (
	"fmt"
	"strings"

	"github.com/Manu343726/mipsasm/pkg/hw/cpu"
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/fields"
	"github.com/Manu343726/mipsasm/pkg/utils"
)

// A field whose value is fixed by the instruction form (opcode, funct...)
type BoundField struct {
	Field *fields.WordField
	Value uint32
}

// A mnemonic suffix and the field value it selects
type Suffix struct {
	Name  string
	Value uint32
}

// A field whose value is selected through a mnemonic suffix
type UnboundField struct {
	Field        *fields.WordField
	Alternatives []Suffix
}

// Returns the alternative with the given suffix name
func (u *UnboundField) Alternative(name string) (Suffix, bool) {
	for _, suffix := range u.Alternatives {
		if suffix.Name == name {
			return suffix, true
		}
	}

	return Suffix{}, false
}

// Returns the names of all alternatives
func (u *UnboundField) SuffixNames() []string {
	return utils.Map(u.Alternatives, func(s Suffix) string { return s.Name })
}

// Template for one instruction bit pattern.
//
// An instruction descriptor is made of bound fields (fixed values identifying the
// instruction, the first one is always the major opcode), unbound fields (values
// picked with mnemonic suffixes, e.g. the ".s" in "add.s") and operands (values
// given by the user of the instruction).
//
// Descriptors are immutable. Binding a suffix returns a new descriptor.
type InstructionDescriptor struct {
	boundFields   []BoundField
	unboundFields []UnboundField
	operands      []*fields.WordField
}

// Initializes an instruction descriptor. Panics if the descriptor is malformed:
// no bound fields, first bound field is not the opcode, a field is used twice,
// two fields overlap or a fixed value does not fit in its field
func NewInstructionDescriptor(bound []BoundField, unbound []UnboundField, operands []*fields.WordField) *InstructionDescriptor {
	if len(bound) == 0 || bound[0].Field != fields.Opcode {
		panic(fmt.Errorf("instruction descriptors must have the opcode as first bound field"))
	}

	d := &InstructionDescriptor{
		boundFields:   bound,
		unboundFields: unbound,
		operands:      operands,
	}

	var usedBits uint32

	for _, field := range d.allFields() {
		if usedBits&field.Mask() != 0 {
			panic(fmt.Errorf("field '%v' overlaps with other fields of instruction descriptor %v", field, d))
		}

		usedBits |= field.Mask()
	}

	for _, b := range bound {
		if !b.Field.Type().Fits(int64(b.Value)) {
			panic(fmt.Errorf("bound value %#x does not fit in field '%v'", b.Value, b.Field))
		}
	}

	for _, u := range unbound {
		if len(u.Alternatives) == 0 {
			panic(fmt.Errorf("unbound field '%v' has no alternatives", u.Field))
		}

		for _, alternative := range u.Alternatives {
			if !u.Field.Type().Fits(int64(alternative.Value)) {
				panic(fmt.Errorf("suffix '%v' value %#x does not fit in field '%v'", alternative.Name, alternative.Value, u.Field))
			}
		}
	}

	return d
}

func (d *InstructionDescriptor) allFields() []*fields.WordField {
	result := make([]*fields.WordField, 0, len(d.boundFields)+len(d.unboundFields)+len(d.operands))

	for _, b := range d.boundFields {
		result = append(result, b.Field)
	}

	for _, u := range d.unboundFields {
		result = append(result, u.Field)
	}

	return append(result, d.operands...)
}

// Returns the bound fields, opcode first
func (d *InstructionDescriptor) BoundFields() []BoundField {
	return d.boundFields
}

// Returns the fields still to be selected through suffixes
func (d *InstructionDescriptor) UnboundFields() []UnboundField {
	return d.unboundFields
}

// Returns the operand fields, in the order they are given to the instruction
func (d *InstructionDescriptor) Operands() []*fields.WordField {
	return d.operands
}

// Returns the major opcode of the instruction
func (d *InstructionDescriptor) Opcode() uint32 {
	return d.boundFields[0].Value
}

// Returns true if the descriptor has no unbound fields and can be encoded
func (d *InstructionDescriptor) IsComplete() bool {
	return len(d.unboundFields) == 0
}

// Returns true if the descriptor requires a mnemonic suffix before it can be encoded
func (d *InstructionDescriptor) IsPartial() bool {
	return !d.IsComplete()
}

// Returns the suffixes accepted next, nil for complete descriptors
func (d *InstructionDescriptor) NextSuffixes() []Suffix {
	if d.IsComplete() {
		return nil
	}

	return d.unboundFields[0].Alternatives
}

// Returns a new descriptor where the first unbound field is bound to the given value.
// Panics if the descriptor is complete
func (d *InstructionDescriptor) BindFirstUnbound(value uint32) *InstructionDescriptor {
	if d.IsComplete() {
		panic(fmt.Errorf("instruction descriptor %v has no unbound fields", d))
	}

	bound := make([]BoundField, len(d.boundFields), len(d.boundFields)+1)
	copy(bound, d.boundFields)
	bound = append(bound, BoundField{Field: d.unboundFields[0].Field, Value: value})

	return &InstructionDescriptor{
		boundFields:   bound,
		unboundFields: d.unboundFields[1:],
		operands:      d.operands,
	}
}

// Binds the first unbound field using a mnemonic suffix
func (d *InstructionDescriptor) Bind(suffix string) (*InstructionDescriptor, error) {
	if d.IsComplete() {
		return nil, utils.MakeError(cpu.ErrUnknownMnemonic, "unexpected suffix '%v'", suffix)
	}

	alternative, ok := d.unboundFields[0].Alternative(suffix)
	if !ok {
		return nil, utils.MakeError(cpu.ErrUnknownMnemonic, "invalid suffix '%v', expected one of %v", suffix, strings.Join(d.unboundFields[0].SuffixNames(), ", "))
	}

	return d.BindFirstUnbound(alternative.Value), nil
}

// Returns all bits this instruction form touches (bound, unbound and operand fields)
func (d *InstructionDescriptor) Mask() uint32 {
	return utils.Reduce(d.allFields(), func(field *fields.WordField, mask uint32) uint32 {
		return mask | field.Mask()
	})
}

// Returns the bits fixed by the bound fields. A word is an instance of the form
// if word&BoundMask() == EncodeBound()
func (d *InstructionDescriptor) BoundMask() uint32 {
	return utils.Reduce(d.boundFields, func(b BoundField, mask uint32) uint32 {
		return mask | b.Field.Mask()
	})
}

// Returns the combined encoding of all bound fields
func (d *InstructionDescriptor) EncodeBound() uint32 {
	return utils.Reduce(d.boundFields, func(b BoundField, word uint32) uint32 {
		return word | (b.Value&b.Field.Type().Mask())<<b.Field.Shift()
	})
}

// Encodes a complete instruction given the values of all its operands, in order
func (d *InstructionDescriptor) Encode(values ...int64) (uint32, error) {
	if d.IsPartial() {
		return 0, utils.MakeError(cpu.ErrUnknownMnemonic, "instruction %v requires a suffix (%v)", d, strings.Join(d.unboundFields[0].SuffixNames(), ", "))
	}

	if len(values) != len(d.operands) {
		return 0, utils.MakeError(cpu.ErrInvalidOperand, "expected %v operands, got %v", len(d.operands), len(values))
	}

	word := d.EncodeBound()

	for i, operand := range d.operands {
		encoded, err := operand.Encode(values[i])
		if err != nil {
			return 0, err
		}

		word |= encoded
	}

	return word, nil
}

// Returns a human readable string representation of the descriptor
func (d *InstructionDescriptor) String() string {
	var builder strings.Builder

	for i, b := range d.boundFields {
		if i > 0 {
			builder.WriteString(" ")
		}
		builder.WriteString(fmt.Sprintf("%v=%#x", b.Field, b.Value))
	}

	for _, u := range d.unboundFields {
		builder.WriteString(fmt.Sprintf(" [%v: %v]", u.Field, strings.Join(u.SuffixNames(), "|")))
	}

	if len(d.operands) > 0 {
		builder.WriteString(" ")
		builder.WriteString(utils.FormatSlice(d.operands, ", "))
	}

	return builder.String()
}
