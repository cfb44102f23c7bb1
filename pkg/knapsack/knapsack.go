// Package knapsack runs the barrier-synchronized evolver on knapsack
// instances.
package knapsack

import (
	"context"
	"fmt"
	"time"

	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	"github.com/mihai-snyk/knapsack-ga/apis/config"
	"github.com/mihai-snyk/knapsack-ga/apis/config/validation"
	"github.com/mihai-snyk/knapsack-ga/pkg/knapsack/algorithms"
	"github.com/mihai-snyk/knapsack-ga/pkg/knapsack/framework"
)

// Solver validates a run, executes it and times it.
type Solver struct {
	clock clock.PassiveClock
}

// NewSolver returns a solver timing runs with clk. A nil clk means the real
// clock.
func NewSolver(clk clock.PassiveClock) *Solver {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Solver{clock: clk}
}

// Summary is the outcome of a finished run.
type Summary struct {
	*framework.Result

	Problem   string
	Algorithm string
	Items     int
	Workers   int
	// Evaluations is the number of fitness evaluations performed.
	Evaluations int64
	Duration    time.Duration
}

// Solve runs cfg.Generations generations on problem with cfg.Workers workers.
// cfg.InstanceFile is not read; the caller has already loaded problem.
func (s *Solver) Solve(ctx context.Context, problem framework.Problem, cfg *config.EvolverConfiguration, reporter framework.Reporter) (*Summary, error) {
	logger := klog.FromContext(ctx).WithValues("problem", problem.Name())

	catalog := problem.Catalog()
	if n := catalog.Len(); n > framework.MaxItems {
		return nil, fmt.Errorf("%w: %d items exceed the limit of %d", framework.ErrResourceExhausted, n, framework.MaxItems)
	}
	if cfg.Workers > framework.MaxWorkers {
		return nil, fmt.Errorf("%w: %d workers exceed the limit of %d", framework.ErrResourceExhausted, cfg.Workers, framework.MaxWorkers)
	}
	if errs := validation.ValidateRun(cfg, &catalog); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", framework.ErrInvalidConfiguration, errs.ToAggregate())
	}

	engine, err := algorithms.NewEngine(algorithms.Config{
		Catalog:     catalog,
		Generations: cfg.Generations,
		Workers:     cfg.Workers,
		Reporter:    reporter,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	start := s.clock.Now()
	result, err := engine.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("running %s on %s: %w", engine.Name(), problem.Name(), err)
	}
	elapsed := s.clock.Since(start)

	n := catalog.Len()
	logger.V(2).Info("Solved", "bestFitness", result.Best.Fitness, "duration", elapsed)
	return &Summary{
		Result:      result,
		Problem:     problem.Name(),
		Algorithm:   engine.Name(),
		Items:       n,
		Workers:     cfg.Workers,
		Evaluations: int64(n) * int64(cfg.Generations+1),
		Duration:    elapsed,
	}, nil
}
