// Command schema-discover is the CLI front end for the extraction
// pipeline (§6): extract from live tools, validate schema files,
// bundle them into a package, or parse help text handed in directly.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagPretty bool
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:           "schema-discover",
	Short:         "Discover CommandSchemas from a tool's help output",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagPretty, "pretty-log", false, "Use a human-readable console log encoder instead of JSON")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug-level logging")

	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newBundleCmd())
	rootCmd.AddCommand(newParseStdinCmd())
	rootCmd.AddCommand(newParseFileCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "schema-discover:", err)
		os.Exit(1)
	}
}
