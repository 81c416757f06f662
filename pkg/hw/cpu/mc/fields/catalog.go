package fields

import (
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/types"
	"github.com/Manu343726/mipsasm/pkg/utils"
)

var (
	Opcode      = NewWordField("opcode", types.Opcode, 26)
	Funct       = NewWordField("funct", types.Funct, 0)
	Sa          = NewWordField("sa", types.ShiftAmount, 6)
	Rd          = NewWordField("rd", types.GPR, 11)
	Rs          = NewWordField("rs", types.GPR, 21)
	Rt          = NewWordField("rt", types.GPR, 16)
	CP0R        = NewWordField("cp0r", types.CP0R, 11)
	Fd          = NewWordField("fd", types.FPR, 6)
	Fs          = NewWordField("fs", types.FPR, 11)
	Ft          = NewWordField("ft", types.FPR, 16)
	Fmt         = NewWordField("fmt", types.Fmt, 21)
	SImm        = NewWordField("simm", types.SImm, 0)
	UImm        = NewWordField("uimm", types.UImm, 0)
	Offset      = NewWordField("offset", types.Offset, 0)
	Target      = NewWordField("target", types.Target, 0)
	Base        = NewPointerField("base", types.GPR, 21)
	SyscallCode = NewWordField("syscall_code", types.SyscallCode, 6)
	TrapCode    = NewWordField("trap_code", types.TrapCode, 6)
)

// Returns all the known word fields
func All() []*WordField {
	return []*WordField{
		Opcode, Funct, Sa, Rd, Rs, Rt, CP0R, Fd, Fs, Ft, Fmt, SImm, UImm, Offset, Target, Base, SyscallCode, TrapCode,
	}
}

var fieldsByName = utils.GenMap(All(), (*WordField).Name)

// Returns the field with the given name
func ByName(name string) (*WordField, error) {
	if field, ok := fieldsByName[name]; ok {
		return field, nil
	}

	return nil, unknownField(name)
}
