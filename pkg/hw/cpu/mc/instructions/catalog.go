package instructions

import (
	"fmt"
	"strings"

	"github.com/Manu343726/mipsasm/pkg/hw/cpu"
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/fields"
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/types"
	"github.com/Manu343726/mipsasm/pkg/utils"
)

// Set of instruction entries indexed by base mnemonic. Entries keep their
// declaration order, which is also the order used to break decoding ties
type Catalog struct {
	entries     []*Entry
	byMnemonic  map[string]*Entry
	jumpOpcodes map[uint32]struct{}
}

// Initializes a catalog. Panics on duplicated mnemonics
func NewCatalog(entries []*Entry) *Catalog {
	c := &Catalog{
		entries:     entries,
		byMnemonic:  make(map[string]*Entry, len(entries)),
		jumpOpcodes: make(map[uint32]struct{}),
	}

	for _, entry := range entries {
		if _, exists := c.byMnemonic[entry.Mnemonic]; exists {
			panic(fmt.Errorf("duplicated instruction mnemonic '%v'", entry.Mnemonic))
		}

		c.byMnemonic[entry.Mnemonic] = entry

		for _, descriptor := range entry.Descriptors() {
			if len(descriptor.BoundFields()) != 1 {
				continue
			}

			for _, operand := range descriptor.Operands() {
				if operand.Type().Kind() == types.Kind_Target {
					c.jumpOpcodes[descriptor.Opcode()] = struct{}{}
				}
			}
		}
	}

	return c
}

// Returns all entries in declaration order
func (c *Catalog) Entries() []*Entry {
	return c.entries
}

// Returns the entry with the given base mnemonic
func (c *Catalog) Entry(mnemonic string) (*Entry, error) {
	if entry, ok := c.byMnemonic[mnemonic]; ok {
		return entry, nil
	}

	return nil, utils.MakeError(cpu.ErrUnknownMnemonic, "'%v'", mnemonic)
}

// Returns the complete descriptor for a dotted mnemonic such as "add", "add.s" or "c.eq.d"
func (c *Catalog) Lookup(mnemonic string) (*InstructionDescriptor, error) {
	parts := strings.Split(mnemonic, ".")

	entry, err := c.Entry(parts[0])
	if err != nil {
		return nil, err
	}

	return entry.Resolve(parts[1:])
}

// Returns every complete instruction form of the catalog, in declaration order
func (c *Catalog) Forms() []Form {
	var forms []Form

	for _, entry := range c.entries {
		forms = append(forms, entry.Forms()...)
	}

	return forms
}

// Returns true if the opcode belongs to an absolute jump instruction, whose
// target is taken from the 256MB region of the next instruction
func (c *Catalog) IsAbsoluteJump(opcode uint32) bool {
	_, ok := c.jumpOpcodes[opcode]
	return ok
}

// The instruction set
var Instructions = NewCatalog([]*Entry{
	Instruction("j", majorOp(0x02, fields.Target)),
	Instruction("jal", majorOp(0x03, fields.Target)),
	Instruction("beq", majorOp(0x04, fields.Rs, fields.Rt, fields.Offset)),
	Instruction("bne", majorOp(0x05, fields.Rs, fields.Rt, fields.Offset)),
	Instruction("blez", majorOp(0x06, fields.Rs, fields.Offset)),
	Instruction("bgtz", majorOp(0x07, fields.Rs, fields.Offset)),
	Instruction("addi", majorOp(0x08, fields.Rt, fields.Rs, fields.SImm)),
	Instruction("addiu", majorOp(0x09, fields.Rt, fields.Rs, fields.SImm)),
	Instruction("slti", majorOp(0x0a, fields.Rt, fields.Rs, fields.SImm)),
	Instruction("sltiu", majorOp(0x0b, fields.Rt, fields.Rs, fields.SImm)),
	Instruction("andi", majorOp(0x0c, fields.Rt, fields.Rs, fields.UImm)),
	Instruction("ori", majorOp(0x0d, fields.Rt, fields.Rs, fields.UImm)),
	Instruction("xori", majorOp(0x0e, fields.Rt, fields.Rs, fields.UImm)),
	Instruction("lui", majorOp(0x0f, fields.Rt, fields.SImm)),
	Instruction("beql", majorOp(0x14, fields.Rs, fields.Rt, fields.Offset)),
	Instruction("bnel", majorOp(0x15, fields.Rs, fields.Rt, fields.Offset)),
	Instruction("blezl", majorOp(0x16, fields.Rs, fields.Offset)),
	Instruction("bgtzl", majorOp(0x17, fields.Rs, fields.Offset)),
	Instruction("daddi", majorOp(0x18, fields.Rt, fields.Rs, fields.SImm)),
	Instruction("daddiu", majorOp(0x19, fields.Rt, fields.Rs, fields.SImm)),
	Instruction("ldl", majorOp(0x1a, fields.Rt, fields.SImm, fields.Base)),
	Instruction("ldr", majorOp(0x1b, fields.Rt, fields.SImm, fields.Base)),
	Instruction("lb", majorOp(0x20, fields.Rt, fields.SImm, fields.Base)),
	Instruction("lh", majorOp(0x21, fields.Rt, fields.SImm, fields.Base)),
	Instruction("lwl", majorOp(0x22, fields.Rt, fields.SImm, fields.Base)),
	Instruction("lw", majorOp(0x23, fields.Rt, fields.SImm, fields.Base)),
	Instruction("lbu", majorOp(0x24, fields.Rt, fields.SImm, fields.Base)),
	Instruction("lhu", majorOp(0x25, fields.Rt, fields.SImm, fields.Base)),
	Instruction("lwr", majorOp(0x26, fields.Rt, fields.SImm, fields.Base)),
	Instruction("lwu", majorOp(0x27, fields.Rt, fields.SImm, fields.Base)),
	Instruction("sb", majorOp(0x28, fields.Rt, fields.SImm, fields.Base)),
	Instruction("sh", majorOp(0x29, fields.Rt, fields.SImm, fields.Base)),
	Instruction("swl", majorOp(0x2a, fields.Rt, fields.SImm, fields.Base)),
	Instruction("sw", majorOp(0x2b, fields.Rt, fields.SImm, fields.Base)),
	Instruction("sdl", majorOp(0x2c, fields.Rt, fields.SImm, fields.Base)),
	Instruction("sdr", majorOp(0x2d, fields.Rt, fields.SImm, fields.Base)),
	Instruction("swr", majorOp(0x2e, fields.Rt, fields.SImm, fields.Base)),
	Instruction("cache", majorOp(0x2f, fields.Rt, fields.SImm, fields.Base)),
	Instruction("ll", majorOp(0x30, fields.Rt, fields.SImm, fields.Base)),
	Instruction("lwc1", majorOp(0x31, fields.Ft, fields.SImm, fields.Base)),
	Instruction("lwc2", majorOp(0x32, fields.Rt, fields.SImm, fields.Base)),
	Instruction("lld", majorOp(0x34, fields.Rt, fields.SImm, fields.Base)),
	Instruction("ldc1", majorOp(0x35, fields.Ft, fields.SImm, fields.Base)),
	Instruction("ldc2", majorOp(0x36, fields.Rt, fields.SImm, fields.Base)),
	Instruction("ld", majorOp(0x37, fields.Rt, fields.SImm, fields.Base)),
	Instruction("sc", majorOp(0x38, fields.Rt, fields.SImm, fields.Base)),
	Instruction("swc1", majorOp(0x39, fields.Ft, fields.SImm, fields.Base)),
	Instruction("swc2", majorOp(0x3a, fields.Rt, fields.SImm, fields.Base)),
	Instruction("scd", majorOp(0x3c, fields.Rt, fields.SImm, fields.Base)),
	Instruction("sdc1", majorOp(0x3d, fields.Ft, fields.SImm, fields.Base)),
	Instruction("sdc2", majorOp(0x3e, fields.Rt, fields.SImm, fields.Base)),
	Instruction("sd", majorOp(0x3f, fields.Rt, fields.SImm, fields.Base)),

	Instruction("sll", specialOp(0x00, fields.Rd, fields.Rt, fields.Sa)),
	Instruction("srl", specialOp(0x02, fields.Rd, fields.Rt, fields.Sa)),
	Instruction("sra", specialOp(0x03, fields.Rd, fields.Rt, fields.Sa)),
	Instruction("sllv", specialOp(0x04, fields.Rd, fields.Rt, fields.Rs)),
	Instruction("srlv", specialOp(0x06, fields.Rd, fields.Rt, fields.Rs)),
	Instruction("srav", specialOp(0x07, fields.Rd, fields.Rt, fields.Rs)),
	Instruction("jr", specialOp(0x08, fields.Rs)),
	Instruction("jalr", specialOp(0x09, fields.Rd, fields.Rs)),
	Instruction("syscall", specialOp(0x0c, fields.SyscallCode)),
	Instruction("break", specialOp(0x0d, fields.SyscallCode)),
	Instruction("sync", specialOp(0x0f)),
	Instruction("mfhi", specialOp(0x10, fields.Rd)),
	Instruction("mthi", specialOp(0x11, fields.Rs)),
	Instruction("mflo", specialOp(0x12, fields.Rd)),
	Instruction("mtlo", specialOp(0x13, fields.Rs)),
	Instruction("dsllv", specialOp(0x14, fields.Rd, fields.Rt, fields.Rs)),
	Instruction("dsrlv", specialOp(0x16, fields.Rd, fields.Rt, fields.Rs)),
	Instruction("dsrav", specialOp(0x17, fields.Rd, fields.Rt, fields.Rs)),
	Instruction("mult", specialOp(0x18, fields.Rs, fields.Rt)),
	Instruction("multu", specialOp(0x19, fields.Rs, fields.Rt)),
	Instruction("divu", specialOp(0x1b, fields.Rs, fields.Rt)),
	Instruction("dmult", specialOp(0x1c, fields.Rs, fields.Rt)),
	Instruction("dmultu", specialOp(0x1d, fields.Rs, fields.Rt)),
	Instruction("ddiv", specialOp(0x1e, fields.Rs, fields.Rt)),
	Instruction("ddivu", specialOp(0x1f, fields.Rs, fields.Rt)),
	Instruction("addu", specialOp(0x21, fields.Rd, fields.Rs, fields.Rt)),
	Instruction("subu", specialOp(0x23, fields.Rd, fields.Rs, fields.Rt)),
	Instruction("and", specialOp(0x24, fields.Rd, fields.Rs, fields.Rt)),
	Instruction("or", specialOp(0x25, fields.Rd, fields.Rs, fields.Rt)),
	Instruction("xor", specialOp(0x26, fields.Rd, fields.Rs, fields.Rt)),
	Instruction("nor", specialOp(0x27, fields.Rd, fields.Rs, fields.Rt)),
	Instruction("slt", specialOp(0x2a, fields.Rd, fields.Rs, fields.Rt)),
	Instruction("sltu", specialOp(0x2b, fields.Rd, fields.Rs, fields.Rt)),
	Instruction("dadd", specialOp(0x2c, fields.Rd, fields.Rs, fields.Rt)),
	Instruction("daddu", specialOp(0x2d, fields.Rd, fields.Rs, fields.Rt)),
	Instruction("dsub", specialOp(0x2e, fields.Rd, fields.Rs, fields.Rt)),
	Instruction("dsubu", specialOp(0x2f, fields.Rd, fields.Rs, fields.Rt)),
	Instruction("tge", specialOp(0x30, fields.Rs, fields.Rt, fields.TrapCode)),
	Instruction("tgeu", specialOp(0x31, fields.Rs, fields.Rt, fields.TrapCode)),
	Instruction("tlt", specialOp(0x32, fields.Rs, fields.Rt, fields.TrapCode)),
	Instruction("tltu", specialOp(0x33, fields.Rs, fields.Rt, fields.TrapCode)),
	Instruction("teq", specialOp(0x34, fields.Rs, fields.Rt, fields.TrapCode)),
	Instruction("tne", specialOp(0x36, fields.Rs, fields.Rt, fields.TrapCode)),
	Instruction("dsll", specialOp(0x38, fields.Rd, fields.Rt, fields.Sa)),
	Instruction("dsrl", specialOp(0x3a, fields.Rd, fields.Rt, fields.Sa)),
	Instruction("dsra", specialOp(0x3b, fields.Rd, fields.Rt, fields.Sa)),
	Instruction("dsll32", specialOp(0x3c, fields.Rd, fields.Rt, fields.Sa)),
	Instruction("dsrl32", specialOp(0x3e, fields.Rd, fields.Rt, fields.Sa)),
	Instruction("dsra32", specialOp(0x3f, fields.Rd, fields.Rt, fields.Sa)),

	Instruction("bltz", regimmOp(0x00, fields.Rs, fields.Offset)),
	Instruction("bgez", regimmOp(0x01, fields.Rs, fields.Offset)),
	Instruction("bltzl", regimmOp(0x02, fields.Rs, fields.Offset)),
	Instruction("bgezl", regimmOp(0x03, fields.Rs, fields.Offset)),
	Instruction("tgei", regimmOp(0x08, fields.Rs, fields.SImm)),
	Instruction("tgeiu", regimmOp(0x09, fields.Rs, fields.SImm)),
	Instruction("tlti", regimmOp(0x0a, fields.Rs, fields.SImm)),
	Instruction("tltiu", regimmOp(0x0b, fields.Rs, fields.SImm)),
	Instruction("teqi", regimmOp(0x0c, fields.Rs, fields.SImm)),
	Instruction("tnei", regimmOp(0x0e, fields.Rs, fields.SImm)),
	Instruction("bltzal", regimmOp(0x10, fields.Rs, fields.Offset)),
	Instruction("bgezal", regimmOp(0x11, fields.Rs, fields.Offset)),
	Instruction("bltzall", regimmOp(0x12, fields.Rs, fields.Offset)),
	Instruction("bgezall", regimmOp(0x13, fields.Rs, fields.Offset)),

	// Pseudo instructions, encoded as one of the above with the missing
	// fields set to zero (register $zero)
	Instruction("move", majorOp(0x08, fields.Rt, fields.Rs)),
	Instruction("clear", specialOp(0x20, fields.Rd)),
	Instruction("nop", specialOp(0x00)),
	Instruction("not", specialOp(0x27, fields.Rd, fields.Rs)),
	Instruction("b", majorOp(0x04, fields.Offset)),
	Instruction("bal", regimmOp(0x11, fields.Offset)),
	Instruction("beqz", majorOp(0x04, fields.Rs, fields.Offset)),
	Instruction("bnez", majorOp(0x05, fields.Rs, fields.Offset)),

	Instruction("mfc0", copMemOp(0, 0x00, fields.Rt, fields.CP0R)),
	Instruction("mfc1", copMemOp(1, 0x00, fields.Rt, fields.Rd)),
	Instruction("mfc2", copMemOp(2, 0x00, fields.Rt, fields.Rd)),
	Instruction("dmfc0", copMemOp(0, 0x01, fields.Rt, fields.CP0R)),
	Instruction("mtc0", copMemOp(0, 0x04, fields.Rt, fields.CP0R)),
	Instruction("mtc1", copMemOp(1, 0x04, fields.Rt, fields.Rd)),
	Instruction("mtc2", copMemOp(2, 0x04, fields.Rt, fields.Rd)),
	Instruction("dmtc0", copMemOp(0, 0x05, fields.Rt, fields.CP0R)),

	Instruction("cfc1", copMemOp(1, 0x02, fields.Rt, fields.Rd)),
	Instruction("cfc2", copMemOp(2, 0x02, fields.Rt, fields.Rd)),
	Instruction("ctc1", copMemOp(1, 0x06, fields.Rt, fields.Rd)),
	Instruction("ctc2", copMemOp(2, 0x06, fields.Rt, fields.Rd)),

	Instruction("bc0f", copBranchOp(0, 0x00)),
	Instruction("bc1f", copBranchOp(1, 0x00)),
	Instruction("bc2f", copBranchOp(2, 0x00)),
	Instruction("bc0t", copBranchOp(0, 0x01)),
	Instruction("bc1t", copBranchOp(1, 0x01)),
	Instruction("bc2t", copBranchOp(2, 0x01)),
	Instruction("bc0fl", copBranchOp(0, 0x02)),
	Instruction("bc1fl", copBranchOp(1, 0x02)),
	Instruction("bc2fl", copBranchOp(2, 0x02)),
	Instruction("bc0tl", copBranchOp(0, 0x03)),
	Instruction("bc1tl", copBranchOp(1, 0x03)),
	Instruction("bc2tl", copBranchOp(2, 0x03)),

	Instruction("tlbr", cop0FunctOp(0x01)),
	Instruction("tlbwi", cop0FunctOp(0x02)),
	Instruction("tlbwr", cop0FunctOp(0x06)),
	Instruction("tlbp", cop0FunctOp(0x08)),
	Instruction("eret", cop0FunctOp(0x18)),

	Instruction("abs", floatOp(0x05, fields.Fd, fields.Fs)),
	Instruction("mov", floatOp(0x06, fields.Fd, fields.Fs)),
	Instruction("mul", floatOp(0x02, fields.Fd, fields.Fs, fields.Ft)),
	Instruction("neg", floatOp(0x07, fields.Fd, fields.Fs)),
	Instruction("sqrt", floatOp(0x04, fields.Fd, fields.Fs)),

	Duplex("add", specialOp(0x20, fields.Rd, fields.Rs, fields.Rt), floatOp(0x00, fields.Fd, fields.Fs, fields.Ft)),
	Duplex("div", specialOp(0x1a, fields.Rs, fields.Rt), floatOp(0x03, fields.Fd, fields.Fs, fields.Ft)),
	Duplex("sub", specialOp(0x22, fields.Rd, fields.Rs, fields.Rt), floatOp(0x01, fields.Fd, fields.Fs, fields.Ft)),

	Instruction("ceil", suffixFloatOp(functSuffixes(Suffix{"l", 0x0a}, Suffix{"w", 0x0e}), floatFormats(), fields.Fd, fields.Fs)),
	Instruction("floor", suffixFloatOp(functSuffixes(Suffix{"l", 0x0b}, Suffix{"w", 0x0f}), floatFormats(), fields.Fd, fields.Fs)),
	Instruction("round", suffixFloatOp(functSuffixes(Suffix{"l", 0x08}, Suffix{"w", 0x0c}), floatFormats(), fields.Fd, fields.Fs)),
	Instruction("trunc", suffixFloatOp(functSuffixes(Suffix{"l", 0x09}, Suffix{"w", 0x0d}), floatFormats(), fields.Fd, fields.Fs)),

	Instruction("c", suffixFloatOp(functSuffixes(
		Suffix{"f", 0x30}, Suffix{"un", 0x31}, Suffix{"eq", 0x32}, Suffix{"ueq", 0x33},
		Suffix{"olt", 0x34}, Suffix{"ult", 0x35}, Suffix{"ole", 0x36}, Suffix{"ule", 0x37},
		Suffix{"sf", 0x38}, Suffix{"ngle", 0x39}, Suffix{"seq", 0x3a}, Suffix{"ngl", 0x3b},
		Suffix{"lt", 0x3c}, Suffix{"nge", 0x3d}, Suffix{"le", 0x3e}, Suffix{"ngt", 0x3f},
	), floatFormats(), fields.Fs, fields.Ft)),

	// TODO: not every destination/source format pair is a valid conversion (cvt.s.s, cvt.d.d...)
	Instruction("cvt", suffixFloatOp(functSuffixes(
		Suffix{"d", 0x21}, Suffix{"l", 0x25}, Suffix{"s", 0x20}, Suffix{"w", 0x24},
	), allFormats(), fields.Fd, fields.Fs)),
})
