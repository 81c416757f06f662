package mc

import (
	"errors"
	"log/slog"
	"math"
	"slices"

	"github.com/Manu343726/mipsasm/pkg/hw/cpu"
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/fields"
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/instructions"
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/types"
	"github.com/Manu343726/mipsasm/pkg/utils"
)

// An already emitted instruction waiting for a label to be defined
type referenceSite struct {
	// Position of the word in the emitted sequence
	index int
	// Word address (pc) of the instruction
	pc uint32
}

type label struct {
	bound bool
	// Byte address, valid once bound
	address uint32
	sites   []referenceSite
}

// Assembles instructions into a sequence of 32 bit words.
//
// Labels can be referenced before being defined, the referencing instructions are
// backpatched when the label gets its address. An Assembler is not safe for
// concurrent use.
type Assembler struct {
	catalog *instructions.Catalog
	logger  *slog.Logger
	words   []uint32
	pc      uint32
	labels  map[string]*label
}

type AssemblerOption func(*Assembler)

// Sets the logger used to trace label resolution and origin changes
func WithLogger(logger *slog.Logger) AssemblerOption {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// Sets the instruction catalog, [instructions.Instructions] by default
func WithCatalog(catalog *instructions.Catalog) AssemblerOption {
	return func(a *Assembler) {
		a.catalog = catalog
	}
}

func NewAssembler(options ...AssemblerOption) *Assembler {
	a := &Assembler{
		catalog: instructions.Instructions,
		logger:  slog.New(slog.DiscardHandler),
		labels:  make(map[string]*label),
	}

	for _, option := range options {
		option(a)
	}

	return a
}

// Returns the emitted words
func (a *Assembler) Words() []uint32 {
	return a.words
}

// Returns the word address of the next instruction
func (a *Assembler) PC() uint32 {
	return a.pc
}

// Returns the byte address of the next instruction
func (a *Assembler) Address() uint32 {
	return a.pc << 2
}

// Returns the byte address of a label, if defined
func (a *Assembler) LabelAddress(name string) (uint32, bool) {
	if l, ok := a.labels[name]; ok && l.bound {
		return l.address, true
	}

	return 0, false
}

// Returns the names of the labels referenced but not defined yet, sorted
func (a *Assembler) UnresolvedLabels() []string {
	var result []string

	for name, l := range a.labels {
		if !l.bound {
			result = append(result, name)
		}
	}

	slices.Sort(result)
	return result
}

// Sets the byte address of the next instruction. The address must be word aligned
func (a *Assembler) SetOrigin(address uint32) error {
	if address&3 != 0 {
		return utils.MakeError(cpu.ErrInvalidOperand, "origin %#x is not word aligned", address)
	}

	a.pc = address >> 2
	a.logger.Debug("origin set", slog.String("address", utils.FormatUintHex(uint64(address), 8)))
	return nil
}

// Appends a raw word. Negative values are stored in two's complement
func (a *Assembler) Push(word int64) (uint32, error) {
	if word < math.MinInt32 || word > math.MaxUint32 {
		return 0, utils.MakeError(cpu.ErrInvalidOperand, "%v is not a 32 bit word", word)
	}

	raw := uint32(word)
	a.words = append(a.words, raw)
	a.pc++
	return raw, nil
}

// Defines a label at the current address, patching every instruction that referenced
// it before. Patching errors are reported here, once the label address is known
func (a *Assembler) DefineLabel(name string) error {
	l, ok := a.labels[name]
	if !ok {
		a.labels[name] = &label{bound: true, address: a.Address()}
		a.logger.Debug("label defined", slog.String("label", name), slog.Uint64("pc", uint64(a.pc)))
		return nil
	}

	if l.bound {
		return utils.MakeError(cpu.ErrDuplicateLabel, "'%v' at %#x", name, l.address)
	}

	l.bound = true
	l.address = a.Address()
	sites := l.sites
	l.sites = nil

	a.logger.Debug("label defined", slog.String("label", name), slog.Uint64("pc", uint64(a.pc)), slog.Int("pending", len(sites)))

	var errs []error

	for _, site := range sites {
		if err := a.backpatch(site, a.pc); err != nil {
			errs = append(errs, utils.MakeError(err, "label '%v' referenced at %#x", name, site.pc<<2))
		}
	}

	return errors.Join(errs...)
}

// Rewrites the offset or target field of a referencing instruction. The kind of
// patch is taken from the opcode of the already emitted word
func (a *Assembler) backpatch(site referenceSite, target uint32) error {
	if site.index >= len(a.words) {
		return utils.MakeError(cpu.ErrInvalidOperand, "no instruction emitted at %#x after the reference", site.pc<<2)
	}

	word := a.words[site.index]
	opcode := fields.Opcode.Raw(word)

	var (
		patched uint32
		err     error
	)

	if a.catalog.IsAbsoluteJump(opcode) {
		if !types.Target.InRange(site.pc+1, target) {
			return utils.MakeError(cpu.ErrJumpOutOfRange, "from %#x to %#x", (site.pc+1)<<2, target<<2)
		}

		patched, err = fields.Target.Set(word, int64(target&types.Target.Mask()))
	} else {
		patched, err = fields.Offset.Set(word, int64(target)-int64(site.pc+1))
	}

	if err != nil {
		return err
	}

	a.logger.Debug("backpatch",
		slog.Int("index", site.index),
		slog.String("old", utils.FormatUintHex(uint64(word), 8)),
		slog.String("new", utils.FormatUintHex(uint64(patched), 8)))

	a.words[site.index] = patched
	return nil
}

// Returns the byte address of a label and whether it is already defined. Undefined
// labels get the address of the next instruction as placeholder
func (a *Assembler) lookupLabel(name string) (uint32, bool) {
	if l, ok := a.labels[name]; ok && l.bound {
		return l.address, true
	}

	return (a.pc + 1) << 2, false
}

func (a *Assembler) addReferenceSite(name string, site referenceSite) {
	l, ok := a.labels[name]
	if !ok {
		l = &label{}
		a.labels[name] = l
	}

	l.sites = append(l.sites, site)
}

// Returns the byte address of a label. If the label is not defined yet, the
// instruction about to be emitted is recorded to be patched later and a
// placeholder address is returned
func (a *Assembler) ReferenceLabel(name string) uint32 {
	address, bound := a.lookupLabel(name)
	if !bound {
		a.addReferenceSite(name, referenceSite{index: len(a.words), pc: a.pc})
	}

	return address
}

// Converts an operand into the value of the given field. Returns the label name if
// the operand references an undefined label
func (a *Assembler) operandValue(field *fields.WordField, operand Operand) (int64, string, error) {
	fieldType := field.Type()

	switch fieldType.Kind() {
	case types.Kind_Symbolic:
		if operand.Kind == OperandKind_Symbol {
			value, err := fieldType.Symbol(operand.Symbol)
			return value, "", err
		}

		return operand.Value, "", nil

	case types.Kind_Offset:
		if operand.Kind == OperandKind_Immediate {
			return operand.Value, "", nil
		}

		address, bound := a.lookupLabel(operand.Symbol)
		offset := (int64(address) - int64(a.Address()+4)) >> 2

		if bound {
			return offset, "", nil
		}

		return offset, operand.Symbol, nil

	case types.Kind_Target:
		var (
			address    int64
			pendingFor string
		)

		if operand.Kind == OperandKind_Immediate {
			address = operand.Value
		} else {
			labelAddress, bound := a.lookupLabel(operand.Symbol)
			address = int64(labelAddress)

			if !bound {
				pendingFor = operand.Symbol
			}
		}

		if address < 0 || address > math.MaxUint32 || address&3 != 0 {
			return 0, "", utils.MakeError(cpu.ErrInvalidOperand, "jump target %#x is not a word aligned address", address)
		}

		target := uint32(address >> 2)

		if !fieldType.InRange(a.pc+1, target) {
			return 0, "", utils.MakeError(cpu.ErrJumpOutOfRange, "from %#x to %#x", a.Address()+4, address)
		}

		return int64(target & fieldType.Mask()), pendingFor, nil
	}

	if operand.Kind == OperandKind_Symbol {
		return 0, "", utils.MakeError(cpu.ErrInvalidOperand, "'%v' expects an integer, got symbol '%v'", field, operand.Symbol)
	}

	return operand.Value, "", nil
}

// Encodes and appends an instruction. The mnemonic may carry suffixes ("add.s",
// "c.eq.d"). Returns the emitted word
func (a *Assembler) Emit(mnemonic string, operands ...Operand) (uint32, error) {
	descriptor, err := a.catalog.Lookup(mnemonic)
	if err != nil {
		return 0, err
	}

	operandFields := descriptor.Operands()

	if len(operands) != len(operandFields) {
		return 0, utils.MakeError(cpu.ErrInvalidOperand, "'%v' expects %v operands (%v), got %v",
			mnemonic, len(operandFields), utils.FormatSlice(operandFields, ", "), len(operands))
	}

	values := make([]int64, len(operands))
	var pendingLabels []string

	for i, field := range operandFields {
		value, pendingLabel, err := a.operandValue(field, operands[i])
		if err != nil {
			return 0, utils.MakeError(err, "'%v' operand %v (%v)", mnemonic, i, field)
		}

		values[i] = value

		if pendingLabel != "" {
			pendingLabels = append(pendingLabels, pendingLabel)
		}
	}

	word, err := descriptor.Encode(values...)
	if err != nil {
		return 0, utils.MakeError(err, "'%v'", mnemonic)
	}

	site := referenceSite{index: len(a.words), pc: a.pc}

	if _, err := a.Push(int64(word)); err != nil {
		return 0, err
	}

	for _, name := range pendingLabels {
		a.addReferenceSite(name, site)
	}

	return word, nil
}
