package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/klog/v2"

	"github.com/mihai-snyk/knapsack-ga/apis/config"
	"github.com/mihai-snyk/knapsack-ga/pkg/knapsack"
	"github.com/mihai-snyk/knapsack-ga/pkg/knapsack/instance"
	"github.com/mihai-snyk/knapsack-ga/pkg/knapsack/util"
)

// NewEvolverCommand creates a *cobra.Command object with default parameters.
func NewEvolverCommand() *cobra.Command {
	opts := NewOptions()

	cmd := &cobra.Command{
		Use:   "knapsack [<instance> <generations> <workers>]",
		Short: "Solve a 0/1 knapsack instance with a barrier-synchronized genetic algorithm",
		Long: `knapsack evolves one candidate per item for the requested number of
generations on a fixed pool of workers and prints the best fitness every five
generations and once more at the end.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 3 {
				return fmt.Errorf("expected no arguments or <instance> <generations> <workers>, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runCommand(ctx, cmd.OutOrStdout(), opts, args)
		},
	}

	nfs := opts.AddFlags()
	addFlagSets(cmd.Flags(), nfs)
	cliflag.SetUsageAndHelpFunc(cmd, *nfs, 0)

	return cmd
}

func addFlagSets(fs *pflag.FlagSet, nfs *cliflag.NamedFlagSets) {
	for _, name := range nfs.Order {
		fs.AddFlagSet(nfs.FlagSets[name])
	}
}

// runCommand runs the evolver and writes one best fitness per line to out.
func runCommand(ctx context.Context, out io.Writer, opts *Options, args []string) error {
	logger := klog.FromContext(ctx)

	cfg, err := opts.Complete(args)
	if err != nil {
		return err
	}
	if err := opts.Validate(cfg); err != nil {
		return err
	}

	problem, err := instance.Load(cfg.InstanceFile)
	if err != nil {
		return err
	}

	recorder := &util.Recorder{}
	reporter := util.Reporters(util.BestFitnessPrinter{Out: out}, recorder)

	summary, err := knapsack.NewSolver(nil).Solve(ctx, problem, cfg, reporter)
	if err != nil {
		return err
	}
	logSummary(logger, cfg, summary)

	if cfg.PlotFile != "" {
		path, err := util.PlotProgressFile(cfg.PlotFile, recorder.Reports(), summary.Problem, summary.Algorithm)
		if err != nil {
			return fmt.Errorf("writing plot: %w", err)
		}
		logger.Info("Wrote fitness chart", "path", path)
	}
	return nil
}

func logSummary(logger klog.Logger, cfg *config.EvolverConfiguration, summary *knapsack.Summary) {
	rate := float64(summary.Evaluations)
	if secs := summary.Duration.Seconds(); secs > 0 {
		rate /= secs
	}
	// Both generations hold one bit per item per individual.
	footprint := uint64(2 * summary.Items * ((summary.Items + 63) / 64) * 8)

	logger.Info("Evolution finished",
		"problem", summary.Problem,
		"items", humanize.Comma(int64(summary.Items)),
		"generations", humanize.Comma(int64(cfg.Generations)),
		"workers", summary.Workers,
		"bestFitness", summary.Best.Fitness,
		"selected", len(summary.Best.Items),
		"evaluations", humanize.Comma(summary.Evaluations),
		"rate", humanize.SIWithDigits(rate, 2, "eval/s"),
		"chromosomes", humanize.IBytes(footprint),
		"duration", summary.Duration.Round(time.Millisecond),
	)
}
