package registers

import (
	"github.com/Manu343726/mipsasm/pkg/utils"
)

type RegisterDescriptor struct {
	// Register class
	Class *RegisterClassDescriptor

	// Register number, as encoded in the instruction word
	Index int

	// Custom name for the register instead of the default RegisterNamePrefix + Index name
	CustomName string

	// Register description (for documentation)
	Description string
}

// Returns the register name
func (d *RegisterDescriptor) Name() string {
	if len(d.CustomName) > 0 {
		return d.CustomName
	} else {
		return d.Class.DefaultRegisterName(d.Index)
	}
}

func (d *RegisterDescriptor) String() string {
	return d.Name()
}

// Creates multiple consecutive indexed registers
func MakeRegisters(count int) []*RegisterDescriptor {
	return utils.Iota(count, func(i int) *RegisterDescriptor {
		return &RegisterDescriptor{
			Index: i,
		}
	})
}

// Creates consecutive indexed registers with the given names
func MakeNamedRegisters(names ...string) []*RegisterDescriptor {
	return utils.Iota(len(names), func(i int) *RegisterDescriptor {
		return &RegisterDescriptor{
			Index:      i,
			CustomName: names[i],
		}
	})
}
