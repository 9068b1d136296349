package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/notices/internal/model"
)

// Run is the state shared by the steps of one generation run.
// Each step reads the fields filled in by earlier steps.
type Run struct {
	// Project is the project name used in the document title and history.
	Project string

	// InputFile is the path of a pre-generated scan report.
	// When empty the scanner is invoked instead.
	InputFile string

	// Text is the raw scan report.
	Text string

	// Entries are the parsed report lines in input order.
	Entries []model.Entry

	// Classification is the license grouping of Entries.
	Classification *model.Classification

	// RunID is the history ID of the saved run, or 0 if it was not saved.
	RunID int64

	// PerformedSteps lists the names of the steps that were executed.
	PerformedSteps []string
}

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Do executes the pipeline step against the run state.
	Do(ctx context.Context, run *Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. The first error is still returned.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: false,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// Cancellation is checked before each step; a running step is expected to
// honour ctx itself.
//
// It returns the first error encountered. With continueOnError the
// remaining steps still run before that error is returned.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	var firstErr error

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"project", run.Project,
		)

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"project", run.Project,
				"error", err,
			)

			if !p.continueOnError {
				return err
			}
			if firstErr == nil {
				firstErr = err
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"project", run.Project,
			)
		}

		run.PerformedSteps = append(run.PerformedSteps, step.Name())
	}

	return firstErr
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
