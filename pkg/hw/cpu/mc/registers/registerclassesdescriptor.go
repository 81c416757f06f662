package registers

import (
	"fmt"
	"strings"

	"github.com/Manu343726/mipsasm/pkg/utils"
)

type RegisterClassesDescriptor struct {
	classes map[RegisterClass]*RegisterClassDescriptor
}

// Returns the descriptor of a register class
func (d *RegisterClassesDescriptor) Class(rc RegisterClass) *RegisterClassDescriptor {
	return d.classes[rc]
}

// Returns all the register classes, in class order
func (d *RegisterClassesDescriptor) AllClasses() []*RegisterClassDescriptor {
	return utils.Iota(int(TOTAL_REGISTER_CLASSES), func(i int) *RegisterClassDescriptor {
		return d.classes[RegisterClass(i)]
	})
}

// Returns a register given its class and index. Equivalent to Class(class).Register(index)
func (d *RegisterClassesDescriptor) Register(class RegisterClass, index int) (*RegisterDescriptor, error) {
	return d.Class(class).Register(index)
}

// Returns a register given its name
func (d *RegisterClassesDescriptor) RegisterByName(name string) (*RegisterDescriptor, error) {
	for _, class := range d.AllClasses() {
		for _, register := range class.AllRegisters() {
			if register.Name() == name {
				return register, nil
			}
		}
	}

	return nil, utils.MakeError(ErrUnknownRegister, "'%v'", name)
}

// Initializes a register classes descriptor with all the given register class descriptors
func NewRegisterClassesDescriptor(classes []*RegisterClassDescriptor) RegisterClassesDescriptor {
	classMap := utils.GenMap(classes, func(class *RegisterClassDescriptor) RegisterClass {
		return class.Class
	})

	names := map[string]*RegisterDescriptor{}

	for _, class := range utils.Iota(int(TOTAL_REGISTER_CLASSES), func(i int) RegisterClass { return RegisterClass(i) }) {
		descriptor, hasClass := classMap[class]
		if !hasClass {
			panic(fmt.Sprintf("missing entry for register class '%v' in registers classes descriptor. Make sure you've added an entry for all register classes in the NewRegisterClassesDescriptor() call", class))
		}

		// Make sure all registers in the class have the right class
		for _, register := range descriptor.registers {
			register.Class = descriptor

			if other, duplicated := names[register.Name()]; duplicated {
				panic(fmt.Sprintf("register name '%v' used by both %v and %v", register.Name(), other.Class.Class, class))
			}

			names[register.Name()] = register
		}
	}

	return RegisterClassesDescriptor{
		classes: classMap,
	}
}

// Returns a table of all registers, one class after another
func (d *RegisterClassesDescriptor) Documentation(leftpad int) string {
	var builder strings.Builder
	padding := strings.Repeat(" ", leftpad)

	for _, class := range d.AllClasses() {
		fmt.Fprintf(&builder, "%v%v (%v):\n", padding, class.Class, class.Description)

		for _, register := range class.AllRegisters() {
			fmt.Fprintf(&builder, "%v  %2d %-10v %v\n", padding, register.Index, register.Name(), register.Description)
		}
	}

	return builder.String()
}
