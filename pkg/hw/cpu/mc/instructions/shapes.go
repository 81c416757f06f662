package instructions

import (
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/fields"
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/types"
)

// Major opcodes shared by whole instruction families
const (
	Opcode_Special uint32 = 0x00
	Opcode_RegImm  uint32 = 0x01
	Opcode_COP0    uint32 = 0x10
	Opcode_COP1    uint32 = 0x11
)

// Value of the rs field selecting the coprocessor branch instructions
const copBranchRs uint32 = 0x08

// Value of the rs field selecting the COP0 function instructions
const cop0FunctRs uint32 = 0x10

func bound(field *fields.WordField, value uint32) BoundField {
	return BoundField{Field: field, Value: value}
}

// Instruction identified only by its major opcode
func majorOp(opcode uint32, operands ...*fields.WordField) *InstructionDescriptor {
	return NewInstructionDescriptor([]BoundField{bound(fields.Opcode, opcode)}, nil, operands)
}

// SPECIAL instruction, opcode 0 and a funct code
func specialOp(funct uint32, operands ...*fields.WordField) *InstructionDescriptor {
	return NewInstructionDescriptor([]BoundField{
		bound(fields.Opcode, Opcode_Special),
		bound(fields.Funct, funct),
	}, nil, operands)
}

// REGIMM instruction, opcode 1 and the rt field as sub-opcode
func regimmOp(rt uint32, operands ...*fields.WordField) *InstructionDescriptor {
	return NewInstructionDescriptor([]BoundField{
		bound(fields.Opcode, Opcode_RegImm),
		bound(fields.Rt, rt),
	}, nil, operands)
}

// Coprocessor move instruction
func copMemOp(cop uint32, rs uint32, operands ...*fields.WordField) *InstructionDescriptor {
	return NewInstructionDescriptor([]BoundField{
		bound(fields.Opcode, Opcode_COP0|cop),
		bound(fields.Rs, rs),
	}, nil, operands)
}

// Coprocessor branch instruction, always taking an offset
func copBranchOp(cop uint32, rt uint32) *InstructionDescriptor {
	return NewInstructionDescriptor([]BoundField{
		bound(fields.Opcode, Opcode_COP0|cop),
		bound(fields.Rs, copBranchRs),
		bound(fields.Rt, rt),
	}, nil, []*fields.WordField{fields.Offset})
}

// COP0 function instruction, without operands
func cop0FunctOp(funct uint32) *InstructionDescriptor {
	return NewInstructionDescriptor([]BoundField{
		bound(fields.Opcode, Opcode_COP0),
		bound(fields.Rs, cop0FunctRs),
		bound(fields.Funct, funct),
	}, nil, nil)
}

// Suffixes selecting a value of the fmt field
func fmtSuffixes(names ...string) UnboundField {
	alternatives := make([]Suffix, 0, len(names))

	for _, name := range names {
		value, err := types.Fmt.Symbol(name)
		if err != nil {
			panic(err)
		}

		alternatives = append(alternatives, Suffix{Name: name, Value: uint32(value)})
	}

	return UnboundField{Field: fields.Fmt, Alternatives: alternatives}
}

// Single and double precision formats
func floatFormats() UnboundField {
	return fmtSuffixes("s", "d")
}

// Every format known by the fmt field
func allFormats() UnboundField {
	return fmtSuffixes(types.Fmt.Symbols()...)
}

// Suffixes selecting a value of the funct field
func functSuffixes(alternatives ...Suffix) UnboundField {
	return UnboundField{Field: fields.Funct, Alternatives: alternatives}
}

// FPU arithmetic instruction, the format is selected with a suffix ("add.s")
func floatOp(funct uint32, operands ...*fields.WordField) *InstructionDescriptor {
	return NewInstructionDescriptor([]BoundField{
		bound(fields.Opcode, Opcode_COP1),
		bound(fields.Funct, funct),
	}, []UnboundField{floatFormats()}, operands)
}

// FPU instruction where both the function and the format are selected with suffixes ("ceil.w.d")
func suffixFloatOp(functs UnboundField, formats UnboundField, operands ...*fields.WordField) *InstructionDescriptor {
	return NewInstructionDescriptor([]BoundField{
		bound(fields.Opcode, Opcode_COP1),
	}, []UnboundField{functs, formats}, operands)
}
