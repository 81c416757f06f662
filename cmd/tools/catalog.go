package tools

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/instructions"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var catalogFormat string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Export the instruction catalog",
	Long: `Lists every instruction form of the catalog, with the bits fixed by the form
(match and mask) and its operands. Suffixed mnemonics are expanded ("add.s",
"add.d", "cvt.d.w", ...).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return WriteCatalog(os.Stdout, instructions.Instructions, catalogFormat)
	},
}

func init() {
	ToolsCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringVarP(&catalogFormat, "format", "f", "yaml", "Output format (yaml, text)")
}

// Writes the forms of the catalog in the given format
func WriteCatalog(w io.Writer, catalog *instructions.Catalog, format string) error {
	forms := catalog.Export()

	switch format {
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)

		if err := encoder.Encode(forms); err != nil {
			return err
		}

		return encoder.Close()
	case "text":
		for _, form := range forms {
			if _, err := fmt.Fprintf(w, "%-12v %-8v %v/%v %v\n", form.Mnemonic, form.Kind, form.Match, form.Mask, strings.Join(form.Operands, ", ")); err != nil {
				return err
			}
		}

		return nil
	}

	return fmt.Errorf("unknown catalog format '%v'", format)
}
