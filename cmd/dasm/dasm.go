package dasm

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Manu343726/mipsasm/cmd/cli"
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc"
	"github.com/Manu343726/mipsasm/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dasmOffset int64
	dasmCount  int
)

var DasmCmd = &cobra.Command{
	Use:   "dasm <file>",
	Short: "Disassemble a machine code file",
	Long: `Reads big endian 32 bit words from a file and prints one listing line per word:

  0x<virtual address>: <raw word> <instruction>

The virtual address of the first word is the origin, each word adds 4 bytes.
Words that do not decode to any instruction are printed as "???".

Example:
  mipsasm dasm program.bin --origin 0x400000
  mipsasm dasm kernel.bin --offset 0x1000 --count 16 --color`,
	Args: cobra.ExactArgs(1),
	RunE: runDasm,
}

func init() {
	DasmCmd.Flags().Int64Var(&dasmOffset, "offset", 0, "Byte offset in the file of the first word")
	DasmCmd.Flags().IntVarP(&dasmCount, "count", "n", -1, "Number of words to disassemble (-1 = up to the end of the file)")
	DasmCmd.Flags().Uint64("origin", 0, "Virtual address of the first word")
	DasmCmd.Flags().Bool("color", false, "Highlight the listing")
	viper.BindPFlag("dasm.origin", DasmCmd.Flags().Lookup("origin"))
	viper.BindPFlag("dasm.color", DasmCmd.Flags().Lookup("color"))
}

// Listing settings
type Options struct {
	// Byte offset of the first word within the input
	Offset int64
	// Maximum number of words, negative for all
	Count int
	// Virtual address of the first word
	Origin uint64
	// Highlight the listing lines
	Color bool
}

// Writes the listing of the words read from input
func Disassemble(input io.ReadSeeker, output io.Writer, options Options) (int, error) {
	if options.Offset < 0 {
		return 0, fmt.Errorf("negative offset %v", options.Offset)
	}

	if _, err := input.Seek(options.Offset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("error seeking to offset %v: %w", options.Offset, err)
	}

	words, err := mc.ReadWords(input, options.Count)
	if err != nil {
		return 0, err
	}

	for _, line := range mc.DisassembleWords(words, options.Origin) {
		if options.Color {
			line = utils.HighlightAssembly(line)
		}

		if _, err := fmt.Fprintln(output, line); err != nil {
			return 0, err
		}
	}

	return len(words), nil
}

func runDasm(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	options := Options{
		Offset: dasmOffset,
		Count:  dasmCount,
		Origin: viper.GetUint64("dasm.origin"),
		Color:  viper.GetBool("dasm.color"),
	}

	input, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("error opening machine code file: %w", err)
	}
	defer input.Close()

	count, err := Disassemble(input, os.Stdout, options)
	if err != nil {
		return fmt.Errorf("error disassembling %v: %w", inputPath, err)
	}

	cli.Logger().Info("disassembled", slog.String("file", inputPath), slog.Int("words", count))
	return nil
}
