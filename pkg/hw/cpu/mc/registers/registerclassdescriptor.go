package registers

import (
	"errors"
	"fmt"

	"github.com/Manu343726/mipsasm/pkg/utils"
)

type RegisterClassDescriptor struct {
	Class              RegisterClass
	Description        string
	RegisterNamePrefix string

	registers []*RegisterDescriptor
}

// Returns the number of registers in the class
func (d *RegisterClassDescriptor) TotalRegisters() int {
	return len(d.registers)
}

// Returns the set of all registers in the class, sorted by index
func (d *RegisterClassDescriptor) AllRegisters() []*RegisterDescriptor {
	return d.registers
}

var ErrUnknownRegister = errors.New("unknown register")

// Returns a register of the class given its index. Register files may have
// unassigned indices
func (d *RegisterClassDescriptor) Register(index int) (*RegisterDescriptor, error) {
	for _, register := range d.registers {
		if register.Index == index {
			return register, nil
		}
	}

	return nil, utils.MakeError(ErrUnknownRegister, "no register with index %v in %v", index, d.Class)
}

// Returns the name used to refer to a register of the class in case the register didn't specify a custom one
func (d *RegisterClassDescriptor) DefaultRegisterName(index int) string {
	return d.RegisterNamePrefix + fmt.Sprint(index)
}

// Returns the register names of the class mapped to their indices
func (d *RegisterClassDescriptor) Symbols() map[string]int64 {
	return utils.GenMapValues(d.registers, (*RegisterDescriptor).Name, func(r *RegisterDescriptor) int64 {
		return int64(r.Index)
	})
}

// Initializes a register class descriptor with the given registers
func NewRegisterClassDescriptor(descriptor *RegisterClassDescriptor, registers []*RegisterDescriptor) *RegisterClassDescriptor {
	descriptor.registers = registers
	return descriptor
}
