package asm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Manu343726/mipsasm/cmd/cli"
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc"
	"github.com/Manu343726/mipsasm/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// Output file name meaning standard output
const stdoutFile = "-"

var ErrTerminalOutput = errors.New("refusing to write machine code to a terminal")

var AsmCmd = &cobra.Command{
	Use:   "asm <source>",
	Short: "Assemble a source file into machine code",
	Long: `Assembles a MIPS32 source file and writes the resulting instruction words
as a flat sequence of big endian 32 bit words, without any header.

Source files have one statement per line. Comments start with '#' or ';'.
A statement is made of optional labels ("name:") followed by either an
instruction ("addiu $t0, $t0, -1", "lw $t1, 4($sp)", "add.s $f0, $f2, $f4"),
a ".org ADDR" directive setting the address of the next word, or a
".word VALUE, ..." directive emitting raw words.

Example:
  mipsasm asm program.s -o program.bin
  mipsasm asm program.s -o - | xxd`,
	Args: cobra.ExactArgs(1),
	RunE: runAsm,
}

func init() {
	AsmCmd.Flags().StringP("output", "o", "asm.out", "Output file, '-' writes to stdout")
	viper.BindPFlag("asm.output", AsmCmd.Flags().Lookup("output"))
}

// Assembles the source read from input and writes the words to output. Nothing is
// written if the source does not assemble. Returns the number of words written
func Assemble(input io.Reader, openOutput func() (io.WriteCloser, error), logger *slog.Logger) (int, error) {
	a, err := mc.AssembleSource(input, mc.WithLogger(logger))
	if err != nil {
		return 0, err
	}

	output, err := openOutput()
	if err != nil {
		return 0, err
	}

	err = mc.WriteWords(output, a.Words())
	if closeErr := output.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return 0, err
	}

	return len(a.Words()), nil
}

// Opens the output file, or stdout if path is "-" and stdout is not a terminal
func OpenOutput(path string) (io.WriteCloser, error) {
	if path == stdoutFile {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, utils.MakeError(ErrTerminalOutput, "redirect stdout or use --output")
		}

		return nopCloser{os.Stdout}, nil
	}

	return os.Create(path)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

func runAsm(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath := viper.GetString("asm.output")
	logger := cli.Logger().With(slog.String("source", inputPath))

	input, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("error opening source file: %w", err)
	}
	defer input.Close()

	count, err := Assemble(input, func() (io.WriteCloser, error) { return OpenOutput(outputPath) }, logger)
	if err != nil {
		return fmt.Errorf("error assembling %v: %w", inputPath, err)
	}

	logger.Info("assembled", slog.Int("words", count), slog.String("output", outputPath))
	cli.Printer().Fprintf(os.Stderr, "%v: %d words (%d bytes) written to %v\n", inputPath, count, 4*count, outputPath)
	return nil
}
