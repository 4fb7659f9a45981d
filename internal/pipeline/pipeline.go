package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/seolens/internal/model"
)

// Step is one stage of a crawl.
type Step interface {
	// Do runs the step against crawl. A returned error stops the pipeline;
	// it should be a *model.CrawlError so callers can classify it.
	Do(ctx context.Context, crawl *model.Crawl) error

	// Name returns the step's name for logging.
	Name() string
}

// Pipeline executes steps in order and stops on the first error.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps against crawl. The first error is stored in
// crawl.Err and returned. Cancellation is checked between steps; each step
// bounds its own network calls.
func (p *Pipeline) Execute(ctx context.Context, crawl *model.Crawl) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("crawl cancelled", "step", step.Name(), "url", crawl.Input, "reason", err)
			crawl.Err = &model.CrawlError{
				Kind:   model.KindInternal,
				URL:    crawl.Target.String(),
				Domain: crawl.Target.Domain(),
				Err:    err,
			}
			return crawl.Err
		}

		p.logger.Info("executing step", "step", step.Name(), "url", crawl.Target.String())

		if err := step.Do(ctx, crawl); err != nil {
			p.logger.Warn("step failed", "step", step.Name(), "url", crawl.Target.String(), "error", err)
			crawl.Err = err
			return err
		}

		p.logger.Debug("step completed", "step", step.Name(), "url", crawl.Target.String())
		crawl.PerformedSteps = append(crawl.PerformedSteps, step.Name())
	}
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
