package registers

// Contains all the metadata describing the register files of the CPU and its coprocessors
var RegisterClasses RegisterClassesDescriptor = NewRegisterClassesDescriptor([]*RegisterClassDescriptor{
	GeneralPurpose(),
	FloatingPoint(32),
	SystemControl(),
})

// General purpose registers descriptor, named after the O32 calling convention
func GeneralPurpose() *RegisterClassDescriptor {
	registers := MakeNamedRegisters(
		"$zero", "$at", "$v0", "$v1", "$a0", "$a1", "$a2", "$a3",
		"$t0", "$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7",
		"$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7",
		"$t8", "$t9", "$k0", "$k1", "$gp", "$sp", "$s8", "$ra",
	)

	registers[0].Description = "Hardwired zero"
	registers[1].Description = "Assembler temporary"
	registers[29].Description = "Stack pointer"
	registers[31].Description = "Return address, written by jal/jalr/bal"

	return NewRegisterClassDescriptor(&RegisterClassDescriptor{
		Class:              RegisterClass_GeneralPurpose,
		Description:        "32 bit general purpose integer registers",
		RegisterNamePrefix: "$r",
	}, registers)
}

// Floating point registers descriptor
func FloatingPoint(count int) *RegisterClassDescriptor {
	return NewRegisterClassDescriptor(&RegisterClassDescriptor{
		Class:              RegisterClass_FloatingPoint,
		Description:        "FPU registers, pairs hold double precision values",
		RegisterNamePrefix: "$f",
	}, MakeRegisters(count))
}

// System control coprocessor registers descriptor. Indices 7, 21-25 and 31 are reserved
func SystemControl() *RegisterClassDescriptor {
	return NewRegisterClassDescriptor(&RegisterClassDescriptor{
		Class:              RegisterClass_SystemControl,
		Description:        "COP0 system control registers",
		RegisterNamePrefix: "$c0_",
	}, []*RegisterDescriptor{
		{Index: 0, CustomName: "Index", Description: "TLB entry index for tlbr/tlbwi"},
		{Index: 1, CustomName: "Random", Description: "TLB entry index for tlbwr"},
		{Index: 2, CustomName: "EntryLo0"},
		{Index: 3, CustomName: "EntryLo1"},
		{Index: 4, CustomName: "Context"},
		{Index: 5, CustomName: "PageMask"},
		{Index: 6, CustomName: "Wired"},
		{Index: 8, CustomName: "BadVAddr", Description: "Last faulting virtual address"},
		{Index: 9, CustomName: "Count"},
		{Index: 10, CustomName: "EntryHi"},
		{Index: 11, CustomName: "Compare"},
		{Index: 12, CustomName: "SR", Description: "Status register"},
		{Index: 13, CustomName: "Cause", Description: "Cause of the last exception"},
		{Index: 14, CustomName: "EPC", Description: "Exception program counter"},
		{Index: 15, CustomName: "PRId"},
		{Index: 16, CustomName: "Config"},
		{Index: 17, CustomName: "LLAddr"},
		{Index: 18, CustomName: "WatchLo"},
		{Index: 19, CustomName: "WatchHi"},
		{Index: 20, CustomName: "XContext"},
		{Index: 26, CustomName: "ECC"},
		{Index: 27, CustomName: "CacheErr"},
		{Index: 28, CustomName: "TagLo"},
		{Index: 29, CustomName: "TagHi"},
		{Index: 30, CustomName: "ErrorEPC"},
	})
}

// Returns a register descriptor by name, panics if no such register exists
func Register(name string) *RegisterDescriptor {
	reg, err := RegisterClasses.RegisterByName(name)

	if err != nil {
		panic(err)
	}

	return reg
}
