package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stellaraccident/circt/colors"
	"github.com/stellaraccident/circt/internal/compiler"
	"github.com/stellaraccident/circt/internal/config"
)

const version = "0.1.0"

var (
	flagConfig  string
	flagSummary bool
)

var rootCmd = &cobra.Command{
	Use:   "firlower [flags] <circuit.yaml>",
	Short: "Lower aggregate types of a FIRRTL circuit to ground types",
	Long: `firlower reads a FIRRTL circuit document, verifies it, replaces every
bundle and vector with one ground-typed value per leaf and prints the
lowered circuit.`,
	Version:       version,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	config.InitializeFlags(rootCmd.Flags())
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "config file (default ./firlower.yaml if present)")
	rootCmd.Flags().BoolVar(&flagSummary, "summary", false, "print a summary after lowering")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.New(), flagConfig, cmd.Flags())
	if err != nil {
		return err
	}
	colors.SetMode(cfg.Color)

	log := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !colors.Enabled()}
	result := compiler.Compile(&compiler.Options{
		InputFile: args[0],
		Config:    cfg,
		Out:       os.Stdout,
		Log:       log,
		Summary:   flagSummary,
		LogFormat: compiler.ANSI,
	})
	if !result.Success {
		os.Exit(1)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		colors.RED.Fprintln(os.Stderr, "firlower:", err)
		fmt.Fprintln(os.Stderr, "Run 'firlower --help' for usage.")
		os.Exit(1)
	}
}
