package tools

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

var decodeTableCmd = &cobra.Command{
	Use:   "decode-table [opcode]",
	Short: "Dump the disassembler decode table",
	Long: `Dumps the structure of the decode table used by the disassembler. If an
opcode is given only the sub-table of that major opcode is dumped.

Example:
  mipsasm tools decode-table 0x11`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opcode, err := parseOpcode(args)
		if err != nil {
			return err
		}

		return DumpDecodeTable(os.Stdout, mc.DefaultDisassembler.Table(), opcode)
	},
}

func init() {
	ToolsCmd.AddCommand(decodeTableCmd)
}

// Returns the major opcode given as argument, or -1 if there is none
func parseOpcode(args []string) (int64, error) {
	if len(args) == 0 {
		return -1, nil
	}

	opcode, err := strconv.ParseUint(args[0], 0, 6)
	if err != nil {
		return 0, fmt.Errorf("invalid opcode '%v', expected a value in range [0, 0x3f]: %w", args[0], err)
	}

	return int64(opcode), nil
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

// Dumps the decode table, or the sub-table of a major opcode if opcode is not negative
func DumpDecodeTable(w io.Writer, table *mc.DecodeTable, opcode int64) error {
	fmt.Fprintf(w, "%v instruction forms\n", table.Size())

	if opcode < 0 {
		dumpConfig.Fdump(w, table.Root())
		return nil
	}

	for _, branch := range table.Root().Branches {
		if node, ok := branch.Children[uint32(opcode)]; ok {
			dumpConfig.Fdump(w, node)
			return nil
		}
	}

	return fmt.Errorf("no instruction with opcode %#x", opcode)
}
