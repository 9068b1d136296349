package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/notices/internal/config"
	"github.com/nao1215/notices/internal/database"
	"github.com/nao1215/notices/internal/log"
	"github.com/nao1215/notices/internal/pipeline"
	"github.com/nao1215/notices/internal/report"
	"github.com/nao1215/notices/internal/scanner"
)

// runGenerateCmd executes the root command.
func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	// SIGINT/SIGTERM cancel the context, which kills a running scanner.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runGenerate(ctx, cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the configuration file and
// cobra command flags, in increasing order of precedence.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named config file must exist; a discovered one is optional.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if flags.Changed("output") {
		if cfg.OutputFile, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("project") {
		if cfg.Project, err = flags.GetString("project"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("purl-type") {
		if cfg.PURLType, err = flags.GetString("purl-type"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("scanner") {
		line, err := flags.GetString("scanner")
		if err != nil {
			return nil, err
		}
		strategy, err := config.ParseCommandLine(line)
		if err != nil {
			return nil, err
		}
		cfg.Strategies = []config.Strategy{strategy}
	}
	if flags.Changed("save") {
		if cfg.SaveHistory, err = flags.GetBool("save"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	if len(args) > 0 {
		cfg.InputFile = args[0]
	}

	return cfg, nil
}

// runGenerate acquires, classifies and renders the notices, then writes them
// to the configured output file or to stdout.
func runGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	logger.Info("generating notices",
		"input", cfg.InputFile,
		"project", cfg.Project,
		"format", cfg.Format,
	)

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewAcquireStep(
			scanner.NewRunner(cfg.Strategies, scanner.WithLogger(logger)),
			pipeline.WithAcquireLogger(logger),
		),
		pipeline.NewParseStep(logger),
		pipeline.NewClassifyStep(),
	)

	var saver pipeline.RunSaver
	if cfg.SaveHistory {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		logger.Debug("history database opened", "path", db.Path())
		saver = db
	}

	run := &pipeline.Run{
		Project:   cfg.Project,
		InputFile: cfg.InputFile,
	}
	if err := p.Execute(ctx, run); err != nil {
		return err
	}

	return publish(ctx, run, cfg, logger, saver, stdout)
}

// publish saves the run when saver is non-nil and writes the notices.
// A failed save does not prevent the notices from being written; the
// first error is returned after both steps have run.
func publish(ctx context.Context, run *pipeline.Run, cfg *config.Config, logger *slog.Logger, saver pipeline.RunSaver, stdout io.Writer) error {
	p := pipeline.New(pipeline.WithLogger(logger), pipeline.WithContinueOnError(true))
	if saver != nil {
		p.AddStep(pipeline.NewHistoryStep(saver, logger))
	}
	p.AddStep(&writeStep{cfg: cfg, stdout: stdout, logger: logger})

	return p.Execute(ctx, run)
}

// writeStep renders Run.Classification and writes it to the configured
// output file or to stdout.
type writeStep struct {
	cfg    *config.Config
	stdout io.Writer
	logger *slog.Logger
}

// Name returns the step name.
func (s *writeStep) Name() string {
	return "write"
}

// Do executes the write step.
func (s *writeStep) Do(_ context.Context, run *pipeline.Run) error {
	data, err := render(s.cfg, &report.Document{
		Project:        run.Project,
		Classification: run.Classification,
	})
	if err != nil {
		return fmt.Errorf("failed to render notices: %w", err)
	}

	if err := report.WriteOutput(s.cfg.OutputFile, data, s.stdout); err != nil {
		return fmt.Errorf("failed to write notices: %w", err)
	}

	if s.cfg.OutputFile != "" {
		s.logger.Info("notices written", "path", s.cfg.OutputFile)
	}
	return nil
}

// render formats the document in the configured output format.
func render(cfg *config.Config, doc *report.Document) ([]byte, error) {
	var buf bytes.Buffer

	var w report.Writer
	switch cfg.Format {
	case config.FormatJSON:
		w = report.NewJSONWriter(&buf, report.WithPrettyPrint(), report.WithPURLType(cfg.PURLType))
	default:
		w = report.NewMarkdownWriter(&buf)
	}

	if _, err := w.Write(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
