package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Manu343726/mipsasm/cmd/asm"
	"github.com/Manu343726/mipsasm/cmd/cli"
	"github.com/Manu343726/mipsasm/cmd/dasm"
	"github.com/Manu343726/mipsasm/cmd/tools"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	closeLog = func() error { return nil }
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "mipsasm",
	Short: "Assembler and disassembler for the MIPS32 instruction set",
	Long: `mipsasm assembles MIPS32 source files into raw big endian machine code and
disassembles machine code back into listings.

Instructions are described by a table of bit field layouts shared by the
assembler and the disassembler, including the FPU (COP1) and system control
(COP0) instructions and the usual pseudo instructions (nop, move, b, beqz, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		closeLog, err = cli.SetupLogging(viper.GetString("log.level"), viper.GetString("log.file"))
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// Runs the root command. The log file is closed whether the command succeeds or not
func run() error {
	err := RootCmd.Execute()

	if closeErr := closeLog(); closeErr != nil {
		fmt.Fprintln(os.Stderr, "Error closing log file:", closeErr)
	}

	closeLog = func() error { return nil }
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mipsasm.yaml)")
	RootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().String("log-file", "", "Also write every log record as JSON to this file")
	viper.BindPFlag("log.level", RootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.file", RootCmd.PersistentFlags().Lookup("log-file"))

	RootCmd.AddCommand(asm.AsmCmd, dasm.DasmCmd, tools.ToolsCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".mipsasm" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mipsasm")
	}

	// MIPSASM_LOG_LEVEL overrides log.level
	viper.SetEnvPrefix("mipsasm")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
