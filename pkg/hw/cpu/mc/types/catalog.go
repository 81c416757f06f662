package types

import "github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/registers"

var (
	Opcode      = NewFieldType("opcode", 6, false)
	Funct       = NewFieldType("funct", 6, false)
	ShiftAmount = NewFieldType("sa", 5, false)

	// General purpose registers
	GPR = registerType("gpr", registers.RegisterClass_GeneralPurpose)

	// Coprocessor 0 (system control) registers
	CP0R = registerType("cp0r", registers.RegisterClass_SystemControl)

	// Floating point registers
	FPR = registerType("fpr", registers.RegisterClass_FloatingPoint)

	// Floating point formats
	Fmt = NewSymbolicType("fmt", 5, map[string]int64{
		"s": 16, "d": 17, "w": 20, "l": 21,
	})

	SImm = NewFieldType("simm", 16, true)
	UImm = NewFieldType("uimm", 16, false)

	Offset = newFieldType("offset", 16, true, Kind_Offset, nil)
	Target = newFieldType("target", 26, false, Kind_Target, nil)

	SyscallCode = NewFieldType("syscall_code", 20, false)
	TrapCode    = NewFieldType("trap_code", 10, false)
)

// Symbolic type naming the registers of a register file
func registerType(name string, class registers.RegisterClass) *FieldType {
	return NewSymbolicType(name, 5, registers.RegisterClasses.Class(class).Symbols())
}

// Returns all the known field types
func All() []*FieldType {
	return []*FieldType{
		Opcode, Funct, ShiftAmount, GPR, CP0R, FPR, Fmt, SImm, UImm, Offset, Target, SyscallCode, TrapCode,
	}
}
