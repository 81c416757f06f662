package instructions

import (
	"fmt"
	"strings"

	"github.com/Manu343726/mipsasm/pkg/hw/cpu"
	"github.com/Manu343726/mipsasm/pkg/utils"
)

type EntryKind uint

const (
	// Mnemonic with a single descriptor
	EntryKind_Simple EntryKind = iota
	// Mnemonic with a single descriptor that requires suffixes
	EntryKind_Suffixed
	// Mnemonic with an integer form (no suffix) and a floating point form (suffixed)
	EntryKind_Duplex
)

func (k EntryKind) String() string {
	switch k {
	case EntryKind_Simple:
		return "simple"
	case EntryKind_Suffixed:
		return "suffixed"
	case EntryKind_Duplex:
		return "duplex"
	}

	panic("unreachable")
}

// A catalog entry, the set of instruction forms behind a base mnemonic
type Entry struct {
	Mnemonic string
	Kind     EntryKind
	// Descriptor used when the mnemonic is written without suffixes, nil if there's none
	Complete *InstructionDescriptor
	// Descriptor used when the mnemonic is written with suffixes, nil if there's none
	Partial *InstructionDescriptor
}

// Initializes a simple or suffixed entry depending on the descriptor
func Instruction(mnemonic string, descriptor *InstructionDescriptor) *Entry {
	if descriptor.IsComplete() {
		return &Entry{
			Mnemonic: mnemonic,
			Kind:     EntryKind_Simple,
			Complete: descriptor,
		}
	}

	return &Entry{
		Mnemonic: mnemonic,
		Kind:     EntryKind_Suffixed,
		Partial:  descriptor,
	}
}

// Initializes a duplex entry. Panics if complete is not complete or partial is not partial
func Duplex(mnemonic string, complete *InstructionDescriptor, partial *InstructionDescriptor) *Entry {
	if !complete.IsComplete() || !partial.IsPartial() {
		panic(fmt.Errorf("duplex instruction '%v' requires a complete and a partial descriptor", mnemonic))
	}

	return &Entry{
		Mnemonic: mnemonic,
		Kind:     EntryKind_Duplex,
		Complete: complete,
		Partial:  partial,
	}
}

// Returns the descriptors of the entry, complete one first
func (e *Entry) Descriptors() []*InstructionDescriptor {
	result := make([]*InstructionDescriptor, 0, 2)

	if e.Complete != nil {
		result = append(result, e.Complete)
	}

	if e.Partial != nil {
		result = append(result, e.Partial)
	}

	return result
}

// Selects the complete descriptor named by the given suffixes. An empty list of
// suffixes selects the unsuffixed form, if any
func (e *Entry) Resolve(suffixes []string) (*InstructionDescriptor, error) {
	if len(suffixes) == 0 {
		if e.Complete == nil {
			return nil, utils.MakeError(cpu.ErrUnknownMnemonic, "'%v' requires a suffix (%v)", e.Mnemonic, strings.Join(e.Partial.UnboundFields()[0].SuffixNames(), ", "))
		}

		return e.Complete, nil
	}

	if e.Partial == nil {
		return nil, utils.MakeError(cpu.ErrUnknownMnemonic, "'%v' does not accept suffixes", e.Mnemonic)
	}

	descriptor := e.Partial

	for _, suffix := range suffixes {
		var err error

		descriptor, err = descriptor.Bind(suffix)
		if err != nil {
			return nil, utils.MakeError(err, "in '%v.%v'", e.Mnemonic, strings.Join(suffixes, "."))
		}
	}

	if descriptor.IsPartial() {
		return nil, utils.MakeError(cpu.ErrUnknownMnemonic, "'%v.%v' requires another suffix (%v)",
			e.Mnemonic, strings.Join(suffixes, "."), strings.Join(descriptor.UnboundFields()[0].SuffixNames(), ", "))
	}

	return descriptor, nil
}

// A complete instruction form, identified by its full dotted mnemonic
type Form struct {
	Mnemonic   string
	Descriptor *InstructionDescriptor
}

func (f Form) String() string {
	return fmt.Sprintf("%v: %v", f.Mnemonic, f.Descriptor)
}

// Returns all complete forms of the entry, unsuffixed form first and then every
// suffix combination in declaration order
func (e *Entry) Forms() []Form {
	var forms []Form

	if e.Complete != nil {
		forms = append(forms, Form{Mnemonic: e.Mnemonic, Descriptor: e.Complete})
	}

	if e.Partial != nil {
		forms = appendForms(forms, e.Mnemonic, e.Partial)
	}

	return forms
}

func appendForms(forms []Form, mnemonic string, descriptor *InstructionDescriptor) []Form {
	if descriptor.IsComplete() {
		return append(forms, Form{Mnemonic: mnemonic, Descriptor: descriptor})
	}

	for _, suffix := range descriptor.NextSuffixes() {
		forms = appendForms(forms, mnemonic+"."+suffix.Name, descriptor.BindFirstUnbound(suffix.Value))
	}

	return forms
}

func (e *Entry) String() string {
	return fmt.Sprintf("%v (%v)", e.Mnemonic, e.Kind)
}
