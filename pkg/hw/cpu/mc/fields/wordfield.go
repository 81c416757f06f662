package fields

import (
	"fmt"

	"github.com/Manu343726/mipsasm/pkg/hw/cpu"
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/types"
	"github.com/Manu343726/mipsasm/pkg/utils"
)

// A field of an instruction word: a field type placed at a given bit position
type WordField struct {
	name      string
	fieldType *types.FieldType
	shift     int
	pointer   bool
}

// Initializes a word field. Panics if the field does not fit in a 32 bit word
func NewWordField(name string, fieldType *types.FieldType, shift int) *WordField {
	if shift < 0 || shift+fieldType.Width() > 32 {
		panic(fmt.Errorf("field '%v' with shift %v does not fit in a 32 bit word (type %v)", name, shift, fieldType))
	}

	return &WordField{
		name:      name,
		fieldType: fieldType,
		shift:     shift,
	}
}

// Initializes a word field rendered as a pointer, grouped with the previous
// operand as value(pointer) in text listings
func NewPointerField(name string, fieldType *types.FieldType, shift int) *WordField {
	field := NewWordField(name, fieldType, shift)
	field.pointer = true
	return field
}

func (f *WordField) Name() string {
	return f.name
}

func (f *WordField) Type() *types.FieldType {
	return f.fieldType
}

// Returns the position of the least significant bit of the field
func (f *WordField) Shift() int {
	return f.shift
}

// Returns true if the field is displayed as a pointer
func (f *WordField) IsPointer() bool {
	return f.pointer
}

// Returns the bits of the word covered by this field
func (f *WordField) Mask() uint32 {
	return f.fieldType.Mask() << f.shift
}

// Returns the encoded (masked and shifted) form of the value
func (f *WordField) Encode(value int64) (uint32, error) {
	if err := f.fieldType.Check(value); err != nil {
		return 0, utils.MakeError(err, "field %v", f.name)
	}

	return f.fieldType.Raw(value) << f.shift, nil
}

// Returns the raw (unshifted, not sign extended) bits of this field in the word
func (f *WordField) Raw(word uint32) uint32 {
	return utils.CreateBitView(&word).Read(f.shift, f.fieldType.Width())
}

// Returns the value of this field in the word, sign extended for signed types
func (f *WordField) Decode(word uint32) int64 {
	return f.fieldType.FromRaw(f.Raw(word))
}

// Returns the word with this field replaced by the value
func (f *WordField) Set(word uint32, value int64) (uint32, error) {
	if err := f.fieldType.Check(value); err != nil {
		return word, utils.MakeError(err, "field %v", f.name)
	}

	utils.CreateBitView(&word).Write(f.fieldType.Raw(value), f.shift, f.fieldType.Width())
	return word, nil
}

func (f *WordField) String() string {
	return f.name
}

// Returns an error wrapping [cpu.ErrInvalidOperand] for an unknown field name
func unknownField(name string) error {
	return utils.MakeError(cpu.ErrInvalidOperand, "unknown field '%v'", name)
}
