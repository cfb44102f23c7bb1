package algorithms

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/go-logr/logr"
	"github.com/marusama/cyclicbarrier"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/klog/v2"

	"github.com/mihai-snyk/knapsack-ga/pkg/knapsack/framework"
)

const (
	Name = "BarrierGA"

	// ReportInterval is the number of generations between best-fitness reports.
	ReportInterval = 5

	// dumpSize is how many top individuals are logged at high verbosity.
	dumpSize = 5
)

// Config holds the inputs of a run.
type Config struct {
	Catalog     framework.Catalog
	Generations int
	Workers     int
	// Reporter receives best-fitness reports. It may be nil.
	Reporter framework.Reporter
	// Logger defaults to the logger carried by the context passed to Run.
	Logger logr.Logger
}

// Engine runs the generational algorithm on a fixed pool of workers that
// only synchronize through a shared barrier.
type Engine struct {
	catalog     framework.Catalog
	generations int
	workers     int
	cohorts     Cohorts
	reporter    framework.Reporter
	logger      logr.Logger

	// onPhase, when set, is called by every worker as it enters a phase.
	onPhase func(worker int, phase Phase, generation int)
}

var _ framework.Algorithm = &Engine{}

// NewEngine validates cfg and returns an engine ready to Run.
func NewEngine(cfg Config) (*Engine, error) {
	if n := cfg.Catalog.Len(); n > framework.MaxItems {
		return nil, fmt.Errorf("%w: %d items exceed the limit of %d", framework.ErrResourceExhausted, n, framework.MaxItems)
	}
	if cfg.Workers > framework.MaxWorkers {
		return nil, fmt.Errorf("%w: %d workers exceed the limit of %d", framework.ErrResourceExhausted, cfg.Workers, framework.MaxWorkers)
	}

	allErrs := cfg.Catalog.Validate(field.NewPath("catalog"))
	if cfg.Generations <= 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("generations"), cfg.Generations, "must be positive"))
	}
	if cfg.Workers <= 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("workers"), cfg.Workers, "must be positive"))
	}
	if len(allErrs) > 0 {
		return nil, fmt.Errorf("%w: %w", framework.ErrInvalidConfiguration, allErrs.ToAggregate())
	}

	return &Engine{
		catalog: framework.Catalog{
			Items:    slices.Clone(cfg.Catalog.Items),
			Capacity: cfg.Catalog.Capacity,
		},
		generations: cfg.Generations,
		workers:     cfg.Workers,
		cohorts:     NewCohorts(cfg.Catalog.Len()),
		reporter:    cfg.Reporter,
		logger:      cfg.Logger,
	}, nil
}

func (e *Engine) Name() string {
	return Name
}

// runState is shared by all workers of one run. It is built before the
// workers start and dropped after they have all returned.
type runState struct {
	// parent is the caller's context. Workers wait on a child of it that is
	// also cancelled when one of them fails.
	parent  context.Context
	cancel  context.CancelCauseFunc
	catalog *framework.Catalog
	gens    *framework.Generations
	barrier cyclicbarrier.CyclicBarrier
	logger  logr.Logger

	// Owned by worker 0.
	fitness []float64
	reports []framework.Report
	best    framework.Solution

	failOnce sync.Once
	failure  error
}

// abort records the first failure and cancels the run context, which breaks
// the barrier so no worker is left waiting for a peer that will never arrive.
func (s *runState) abort(err error) {
	s.failOnce.Do(func() {
		s.failure = err
	})
	s.cancel(err)
}

// Run executes all generations and returns the reports and the best
// individual of the final population. Cancelling ctx releases the workers at
// their next rendezvous.
func (e *Engine) Run(ctx context.Context) (*framework.Result, error) {
	logger := e.logger
	if logger.GetSink() == nil {
		logger = klog.FromContext(ctx)
	}
	n := e.catalog.Len()
	logger = logger.WithValues("algorithm", Name, "items", n, "workers", e.workers)
	logger.V(2).Info("Starting evolution", "generations", e.generations, "capacity", e.catalog.Capacity)

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	state := &runState{
		parent:  ctx,
		cancel:  cancel,
		catalog: &e.catalog,
		gens:    framework.NewGenerations(n),
		barrier: cyclicbarrier.New(e.workers),
		logger:  logger,
		fitness: make([]float64, n),
	}
	// Buffers are released only after every worker has returned.
	defer state.gens.Release()

	var g errgroup.Group
	for id := 0; id < e.workers; id++ {
		w := &worker{id: id, ctx: runCtx, engine: e, state: state}
		g.Go(w.run)
	}
	if err := g.Wait(); err != nil {
		if state.failure != nil {
			err = state.failure
		}
		if errors.Is(err, framework.ErrWorkerFailure) {
			logger.Error(err, "Evolution aborted")
		} else {
			logger.V(2).Info("Evolution cancelled", "err", err)
		}
		return nil, err
	}

	logger.V(2).Info("Finished evolution", "bestFitness", state.best.Fitness, "selectedItems", len(state.best.Items))
	return &framework.Result{
		Reports: state.reports,
		Best:    state.best,
	}, nil
}

type worker struct {
	id     int
	ctx    context.Context
	engine *Engine
	state  *runState
}

func (w *worker) run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: worker %d panicked: %v", framework.ErrWorkerFailure, w.id, r)
			w.state.abort(err)
		}
	}()

	if err := w.evolve(); err != nil {
		// Once the caller has cancelled, peers may see a broken barrier
		// instead of the context error. Report the cancellation either way.
		if ctxErr := w.state.parent.Err(); ctxErr != nil {
			err = ctxErr
		} else {
			err = fmt.Errorf("%w: worker %d: %w", framework.ErrWorkerFailure, w.id, err)
		}
		w.state.abort(err)
		return err
	}
	return nil
}

func (w *worker) evolve() error {
	s := w.state
	e := w.engine

	if err := w.parallel(PhaseSeed, 0, s.catalog.Len(), w.seed); err != nil {
		return err
	}

	for k := 0; k < e.generations; k++ {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if err := w.generation(k); err != nil {
			return err
		}
	}

	n := s.catalog.Len()
	if err := w.parallel(PhaseEvaluate, e.generations, n, func(start, end int) {
		s.catalog.EvaluateRange(s.gens.Current(), start, end)
	}); err != nil {
		return err
	}
	return w.exclusive(PhaseSort, e.generations, func() {
		current := s.gens.Current()
		framework.SortByRank(current)
		w.report(e.generations, current, current, true)
		s.best = s.catalog.Snapshot(&current[0])
	})
}

// generation runs one full round. Every phase ends with a rendezvous, so each
// phase sees everything the previous one wrote.
func (w *worker) generation(k int) error {
	s := w.state
	c := w.engine.cohorts
	n := s.catalog.Len()

	// Roles only change in PhaseSwap, so these stay valid until then.
	current, next := s.gens.Current(), s.gens.Next()

	if err := w.parallel(PhaseEvaluate, k, n, func(start, end int) {
		s.catalog.EvaluateRange(current, start, end)
	}); err != nil {
		return err
	}

	if err := w.exclusive(PhaseSort, k, func() {
		framework.SortByRank(current)
	}); err != nil {
		return err
	}

	if err := w.parallel(PhaseElite, k, c.Elite, func(start, end int) {
		for i := start; i < end; i++ {
			next[i].CopyFrom(&current[i])
		}
	}); err != nil {
		return err
	}

	if err := w.parallel(PhaseMutateSegmented, k, c.Mutation, func(start, end int) {
		base := c.MutationStart()
		for i := base + start; i < base+end; i++ {
			next[i].CopyFrom(&current[i])
			MutateSegmented(&next[i], current[i].OriginalIndex, k)
		}
	}); err != nil {
		return err
	}

	if err := w.parallel(PhaseMutateStrided, k, c.Mutation, func(start, end int) {
		base := c.StridedStart()
		for i := base + start; i < base+end; i++ {
			next[i].CopyFrom(&current[i])
			MutateStrided(&next[i], k)
		}
	}); err != nil {
		return err
	}

	if err := w.exclusive(PhaseCrossoverPrep, k, func() {
		if c.Crossover%2 == 1 {
			next[n-1].CopyFrom(&current[c.Crossover-1])
		}
	}); err != nil {
		return err
	}

	if err := w.parallel(PhaseCrossover, k, c.Pairs(), func(start, end int) {
		base := c.CrossoverStart()
		for p := start; p < end; p++ {
			Crossover(&current[2*p], &current[2*p+1], &next[base+2*p], &next[base+2*p+1], k)
		}
	}); err != nil {
		return err
	}

	if err := w.exclusive(PhaseSwap, k, s.gens.Swap); err != nil {
		return err
	}

	if err := w.parallel(PhaseReindex, k, n, func(start, end int) {
		current := s.gens.Current()
		for i := start; i < end; i++ {
			current[i].OriginalIndex = i
		}
	}); err != nil {
		return err
	}

	return w.exclusive(PhaseReport, k, func() {
		if k%ReportInterval == 0 {
			// The buffer ranked this round is now the next one.
			w.report(k, s.gens.Current(), s.gens.Next(), false)
		}
	})
}

// seed gives individual i of the current generation only item i and clears
// the same slots of the next generation.
func (w *worker) seed(start, end int) {
	current, next := w.state.gens.Current(), w.state.gens.Next()
	for i := start; i < end; i++ {
		current[i].Chromosome.Reset()
		current[i].Chromosome.Set(i)
		current[i].OnesCount = 1
		current[i].Fitness = 0
		current[i].OriginalIndex = i

		next[i].Chromosome.Reset()
		next[i].OnesCount = 0
		next[i].Fitness = 0
		next[i].OriginalIndex = i
	}
}

// parallel runs fn over this worker's share of [0, size) and then waits for
// the other workers.
func (w *worker) parallel(phase Phase, generation, size int, fn func(start, end int)) error {
	w.enter(phase, generation)
	start, end := framework.Range(w.id, w.engine.workers, size)
	fn(start, end)
	return w.state.barrier.Await(w.ctx)
}

// exclusive runs fn on worker 0 only; every worker then waits.
func (w *worker) exclusive(phase Phase, generation int, fn func()) error {
	w.enter(phase, generation)
	if w.id == 0 {
		fn()
	}
	return w.state.barrier.Await(w.ctx)
}

func (w *worker) enter(phase Phase, generation int) {
	if w.engine.onPhase != nil {
		w.engine.onPhase(w.id, phase, generation)
	}
	if w.id == 0 {
		w.state.logger.V(6).Info("Entering phase", "phase", phase, "generation", generation)
	}
}

// report publishes the best fitness, which is current[0] since the elite copy
// carries the fitness of the top ranked individual. The statistics cover the
// ranked buffer. Only called on worker 0.
func (w *worker) report(generation int, current, ranked framework.Population, final bool) {
	s := w.state
	for i := range ranked {
		s.fitness[i] = float64(ranked[i].Fitness)
	}
	mean, std := stat.MeanStdDev(s.fitness, nil)

	r := framework.Report{
		Generation:    generation,
		BestFitness:   current[0].Fitness,
		MeanFitness:   mean,
		StdDevFitness: std,
		Final:         final,
	}
	s.reports = append(s.reports, r)

	s.logger.V(4).Info("Generation ranked", "generation", generation, "best", r.BestFitness, "mean", r.MeanFitness, "final", final)
	if logger := s.logger.V(5); logger.Enabled() {
		for i := 0; i < min(dumpSize, len(ranked)); i++ {
			logger.Info("Ranked individual", "rank", i, "chromosome", ranked[i].Chromosome.String(),
				"fitness", ranked[i].Fitness, "items", ranked[i].OnesCount)
		}
	}

	if w.engine.reporter != nil {
		w.engine.reporter.Report(r)
	}
}
