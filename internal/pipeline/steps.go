package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/notices/internal/model"
	"github.com/nao1215/notices/internal/parser"
	"github.com/nao1215/notices/internal/source"
)

// errNoClassification is returned when the history step runs before
// classification.
var errNoClassification = errors.New("no classification to save")

// AcquireStep reads the scan report from the input file or the scanner.
type AcquireStep struct {
	// scanner is invoked when the run has no input file.
	scanner source.Scanner

	// logger for structured logging.
	logger *slog.Logger
}

// AcquireStepOption configures an AcquireStep.
type AcquireStepOption func(*AcquireStep)

// WithAcquireLogger sets a custom logger for the acquire step.
func WithAcquireLogger(logger *slog.Logger) AcquireStepOption {
	return func(s *AcquireStep) {
		s.logger = logger
	}
}

// NewAcquireStep creates a step that fills Run.Text.
// scanner may be nil when an input file is always supplied.
func NewAcquireStep(scanner source.Scanner, opts ...AcquireStepOption) *AcquireStep {
	s := &AcquireStep{
		scanner: scanner,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *AcquireStep) Name() string {
	return "acquire"
}

// Do executes the acquire step.
func (s *AcquireStep) Do(ctx context.Context, run *Run) error {
	text, err := source.Acquire(ctx, run.InputFile, s.scanner)
	if err != nil {
		return err
	}
	run.Text = text

	from := run.InputFile
	if from == "" {
		from = "scanner"
	}
	s.logger.Debug("report acquired", "from", from, "bytes", len(text))

	return nil
}

// ParseStep parses Run.Text into Run.Entries.
type ParseStep struct {
	logger *slog.Logger
}

// NewParseStep creates a parse step.
func NewParseStep(logger *slog.Logger) *ParseStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParseStep{logger: logger}
}

// Name returns the step name.
func (s *ParseStep) Name() string {
	return "parse"
}

// Do executes the parse step. Lines that do not match are skipped.
func (s *ParseStep) Do(_ context.Context, run *Run) error {
	run.Entries = parser.Parse(run.Text)
	s.logger.Debug("report parsed", "entries", len(run.Entries))
	return nil
}

// ClassifyStep groups Run.Entries into Run.Classification.
type ClassifyStep struct{}

// NewClassifyStep creates a classify step.
func NewClassifyStep() *ClassifyStep {
	return &ClassifyStep{}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return "classify"
}

// Do executes the classify step.
func (s *ClassifyStep) Do(_ context.Context, run *Run) error {
	run.Classification = model.Classify(run.Entries)
	return nil
}

// RunSaver stores a classification and returns the new run ID.
// It is implemented by *database.HistoryDB.
type RunSaver interface {
	SaveRun(ctx context.Context, project string, c *model.Classification) (int64, error)
}

// HistoryStep saves Run.Classification to the history database.
type HistoryStep struct {
	saver  RunSaver
	logger *slog.Logger
}

// NewHistoryStep creates a history step that saves through saver.
func NewHistoryStep(saver RunSaver, logger *slog.Logger) *HistoryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryStep{
		saver:  saver,
		logger: logger,
	}
}

// Name returns the step name.
func (s *HistoryStep) Name() string {
	return "history"
}

// Do executes the history step.
func (s *HistoryStep) Do(ctx context.Context, run *Run) error {
	if run.Classification == nil {
		return errNoClassification
	}

	id, err := s.saver.SaveRun(ctx, run.Project, run.Classification)
	if err != nil {
		return err
	}
	run.RunID = id

	s.logger.Info("run saved", "id", id, "project", run.Project)
	return nil
}
