package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/notices/internal/config"
)

// NewRootCmd creates the root command for notices.
// Running it without a subcommand generates the attribution document.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notices [input-file]",
		Short: "Generate third-party license notices from an nlf report",
		Long: `notices converts a license scan report into a human-readable
third-party attribution document.

Each report line has the form:
  name@version [license(s): MIT, Apache-2.0]

Packages are grouped by license. Packages that list more than one license
are shown separately as multi-license (OR) packages.

If no input file is given, nlf is run in the current directory. The
commands nlf, nlf.cmd and "npx -y nlf" are tried in that order.

Examples:
  # Scan the current project and print Markdown
  notices

  # Convert a saved report and write it to a file
  notices licenses.txt -o THIRD_PARTY_NOTICES.md --project my-app

  # Emit JSON with package URLs
  notices licenses.txt --format json

  # Use a different scanner command
  notices --scanner "pnpm dlx nlf"

  # Save the run so it can be compared later
  notices --project my-app --save`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runGenerateCmd,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Write notices to specified file path (creates directories if needed)")
	cmd.Flags().StringP("project", "p", "",
		"Project name shown in the document title")
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Output format: markdown or json")
	cmd.Flags().String("purl-type", config.DefaultPURLType,
		"Package URL type used in JSON output")

	// Scanner override
	cmd.Flags().String("scanner", "",
		`Scanner command line to run instead of the configured strategies (e.g. "pnpm dlx nlf")`)

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .notices.yaml in current, XDG config or home directory)")

	// History flags
	cmd.Flags().BoolP("save", "s", false,
		"Save the classification to the history database")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	// Add subcommands
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
