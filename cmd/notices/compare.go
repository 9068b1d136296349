package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nao1215/notices/internal/config"
	"github.com/nao1215/notices/internal/database"
	"github.com/nao1215/notices/internal/model"
	"github.com/nao1215/notices/internal/report"
)

// unnamedProject is shown for runs saved without a project name.
const unnamedProject = "(unnamed)"

// NewCompareCmd creates the compare command.
// This command compares saved runs from the history database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [project]",
		Short: "Compare saved notice runs of a project",
		Long: `Compare displays the license differences between two saved runs.

It shows:
- Packages added since the older run
- Packages removed since the older run
- Packages whose license list changed

Runs are saved with 'notices --save' (or history.enabled in the config file).
A package is identified by its full name@version, so a version bump is shown
as one removal and one addition. Omit the project argument for runs saved
without --project.

Examples:
  # Compare the latest two runs of a project
  notices compare my-app

  # List saved runs of a project
  notices compare --list my-app

  # Compare the latest run with a specific run by ID
  notices compare --with-id 5 my-app

  # Output comparison in JSON format
  notices compare --json my-app

  # List all projects in the database
  notices compare --list-projects`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List saved runs for the specified project")
	cmd.Flags().BoolP("list-projects", "L", false,
		"List all projects in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-id", "i", 0,
		"Compare the latest run with a specific run by ID (use --list to see available IDs)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().Bool("no-color", false,
		"Disable colored output")

	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	var project string
	if len(args) > 0 {
		project = args[0]
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	listProjects, err := cmd.Flags().GetBool("list-projects")
	if err != nil {
		return err
	}
	if listProjects {
		return listSavedProjects(ctx, out, db)
	}

	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listRunHistory(ctx, out, db, project)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	withID, err := cmd.Flags().GetInt64("with-id")
	if err != nil {
		return err
	}
	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return err
	}
	useColor := !noColor && !color.NoColor && out == io.Writer(os.Stdout)

	return runComparison(ctx, out, db, project, withID, jsonOutput, useColor)
}

// listSavedProjects lists all projects that have saved runs.
func listSavedProjects(ctx context.Context, out io.Writer, db *database.HistoryDB) error {
	projects, err := db.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if len(projects) == 0 {
		fmt.Fprintf(out, "No saved runs found in %s.\n", db.Path())
		fmt.Fprintln(out, "\nUse 'notices --save' to save a run.")
		return nil
	}

	fmt.Fprintf(out, "Projects (%d):\n\n", len(projects))
	for _, project := range projects {
		fmt.Fprintf(out, "  • %s\n", displayProject(project))
	}
	fmt.Fprintln(out, "\nUse 'notices compare --list <project>' to see saved runs for a project.")

	return nil
}

// listRunHistory lists all saved runs for a project.
func listRunHistory(ctx context.Context, out io.Writer, db *database.HistoryDB, project string) error {
	runs, err := db.GetHistory(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintf(out, "No saved runs found for %s\n", displayProject(project))
		return nil
	}

	fmt.Fprintf(out, "Saved runs for %s (%d runs):\n\n", displayProject(project), len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-8s  %s\n", "ID", "Date", "Single", "Multi")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 48))

	for _, meta := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-8d  %d\n",
			meta.ID,
			meta.Timestamp.Format(time.DateTime),
			meta.Summary.SingleLicenseCount,
			meta.Summary.MultiLicenseCount,
		)
	}

	fmt.Fprintln(out, "\nUse 'notices compare <project>' to compare the latest two runs.")
	fmt.Fprintln(out, "Use 'notices compare --with-id <id> <project>' to compare with a specific run.")

	return nil
}

// runComparison compares the latest run of a project with the previous run
// or with the run identified by withID.
func runComparison(ctx context.Context, out io.Writer, db *database.HistoryDB, project string, withID int64, jsonOutput, useColor bool) error {
	runs, err := db.LatestRuns(ctx, project, 2)
	if err != nil {
		return fmt.Errorf("failed to get runs: %w", err)
	}

	if len(runs) == 0 {
		return fmt.Errorf("no saved runs found for %s", displayProject(project))
	}

	newer := runs[0]
	var older *database.Run

	if withID > 0 {
		older, err = db.GetRunByID(ctx, withID)
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("run with ID %d not found", withID)
		}
		if err != nil {
			return fmt.Errorf("failed to get run with ID %d: %w", withID, err)
		}
		if older.Project != project {
			return fmt.Errorf("run ID %d belongs to %s, not %s", withID, displayProject(older.Project), displayProject(project))
		}
	} else {
		if len(runs) < 2 {
			return fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(runs))
		}
		older = runs[1]
	}

	comparison := newComparison(project, older, newer)

	if jsonOutput {
		_, err = report.NewJSONWriter(out, report.WithPrettyPrint()).WriteComparison(comparison)
	} else {
		_, err = report.NewDiffWriter(out, report.WithColor(useColor)).Write(comparison)
	}
	return err
}

// newComparison builds the comparison between two runs.
func newComparison(project string, older, newer *database.Run) *report.Comparison {
	return &report.Comparison{
		Project: project,
		Older:   newDiffSide(older),
		Newer:   newDiffSide(newer),
		Diff:    model.Compare(older.Classification, newer.Classification),
	}
}

// newDiffSide describes one run in a comparison.
func newDiffSide(run *database.Run) report.DiffSide {
	return report.DiffSide{
		Label:   fmt.Sprintf("#%d (%s)", run.ID, run.Timestamp.Format(time.DateTime)),
		Summary: run.Classification.Summary(),
	}
}

// displayProject returns a printable project name.
func displayProject(project string) string {
	if project == "" {
		return unnamedProject
	}
	return project
}
