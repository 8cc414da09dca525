// Command deferblock generates and cleans descriptor manifests for
// packages that declare deferblock.Descriptor vars.
package main

import (
	"fmt"
	"os"

	"github.com/riftlab/deferblock/lib/generator"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "deferblock",
		Short:         "Manage generated descriptor manifests for defer blocks",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newCleanCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newGenerateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate [packages]",
		Short: "Write a Descriptors manifest for every package with defer-block vars",
		Long: `generate scans the packages named by patterns (defaulting to ./...) for
top-level vars initialized from deferblock.NewDescriptor(...) chains, and
writes one deferblock_gen.go manifest per package aggregating them into a
Descriptors slice a host can register in one call.`,
		Example: "  deferblock generate ./...\n  deferblock generate --dry-run ./components/dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := args
			if len(patterns) == 0 {
				patterns = []string{"./..."}
			}
			gen := generator.New(generator.Options{DryRun: dryRun})
			return gen.Generate(patterns...)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be generated without writing files")
	return cmd
}

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [packages]",
		Short: "Remove previously generated manifests",
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := args
			if len(patterns) == 0 {
				patterns = []string{"./..."}
			}
			gen := generator.New(generator.Options{})
			return gen.Clean(patterns...)
		},
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the deferblock CLI version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "deferblock version %s\n", version)
			return nil
		},
	}
}
