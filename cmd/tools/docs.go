package tools

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/instructions"
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/registers"
	"github.com/Manu343726/mipsasm/pkg/utils"
	"github.com/spf13/cobra"
)

var supportedModules = map[string]func() (string, error){
	"instructions": func() (string, error) { return instructions.Instructions.Documentation(0) },
	"registers":    func() (string, error) { return registers.RegisterClasses.Documentation(0), nil },
}

func moduleNames() []string {
	names := utils.Keys(supportedModules)
	slices.Sort(names)
	return names
}

var docsCmd = &cobra.Command{
	Use:   "docs module",
	Short: "Show instruction set documentation",
	Long: `Dumps the documentation of the specified module.
By default the tool dumps the documentation to stdout, but it can be redirected to a file using the --output flag.

Supported modules:
` + strings.Join(utils.Map(moduleNames(), func(module string) string { return "  " + module }), "\n"),
	Args:      cobra.MatchAll(cobra.OnlyValidArgs, cobra.ExactArgs(1)),
	ValidArgs: moduleNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := supportedModules[args[0]]()
		if err != nil {
			return fmt.Errorf("error generating documentation: %w", err)
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile == "" {
			fmt.Println(docs)
			return nil
		}

		if err := os.WriteFile(outputFile, []byte(docs), 0o644); err != nil {
			return fmt.Errorf("error writing documentation: %w", err)
		}

		return nil
	},
}

func init() {
	ToolsCmd.AddCommand(docsCmd)
	docsCmd.Flags().StringP("output", "o", "", "Output file. If not specified, the documentation is dumped to stdout.")
}
