package app

import (
	"fmt"
	"strconv"

	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/component-base/logs"

	"github.com/mihai-snyk/knapsack-ga/apis/config"
	"github.com/mihai-snyk/knapsack-ga/apis/config/validation"
	"github.com/mihai-snyk/knapsack-ga/pkg/knapsack/framework"
)

// Options has all the params needed to run the evolver.
type Options struct {
	// ConfigFile is the location of an EvolverConfiguration file.
	ConfigFile string

	// Flag values. They override the configuration file when set.
	InstanceFile string
	Generations  int
	Workers      int
	PlotFile     string

	// Flags is filled by AddFlags and tells set flags from defaults.
	Flags *cliflag.NamedFlagSets
}

// NewOptions returns options with the defaults of an empty configuration.
func NewOptions() *Options {
	return &Options{}
}

// AddFlags returns the flag sets of the command, grouped by section.
func (o *Options) AddFlags() *cliflag.NamedFlagSets {
	nfs := &cliflag.NamedFlagSets{}

	fs := nfs.FlagSet("evolver")
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "The path to an EvolverConfiguration file (YAML or JSON). Flags override its values.")
	fs.StringVar(&o.InstanceFile, "instance", o.InstanceFile, "The knapsack instance file. Text unless the extension is .yaml, .yml or .json.")
	fs.IntVar(&o.Generations, "generations", o.Generations, "The number of generations to run.")
	fs.IntVar(&o.Workers, "workers", o.Workers, "The number of workers. Defaults to GOMAXPROCS.")
	fs.StringVar(&o.PlotFile, "plot-file", o.PlotFile, "If set, write an HTML chart of the reported fitness to this file.")

	logs.AddFlags(nfs.FlagSet("logging"))

	o.Flags = nfs
	return nfs
}

// Complete merges the defaults, the configuration file, the positional
// arguments and the flags, in increasing order of precedence. Values given
// explicitly are kept as is, so a zero worker count is left for Validate to
// reject. The positional form is `<instance> <generations> <workers>`.
func (o *Options) Complete(args []string) (*config.EvolverConfiguration, error) {
	cfg := &config.EvolverConfiguration{}
	config.SetDefaults_EvolverConfiguration(cfg)
	if o.ConfigFile != "" {
		loaded, err := config.Load(o.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	switch len(args) {
	case 0:
	case 3:
		generations, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("%w: generations %q is not an integer", framework.ErrInvalidConfiguration, args[1])
		}
		workers, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("%w: workers %q is not an integer", framework.ErrInvalidConfiguration, args[2])
		}
		cfg.InstanceFile, cfg.Generations, cfg.Workers = args[0], generations, workers
	default:
		return nil, fmt.Errorf("%w: expected <instance> <generations> <workers>, got %d arguments", framework.ErrInvalidConfiguration, len(args))
	}

	if o.changed("instance") {
		cfg.InstanceFile = o.InstanceFile
	}
	if o.changed("generations") {
		cfg.Generations = o.Generations
	}
	if o.changed("workers") {
		cfg.Workers = o.Workers
	}
	if o.changed("plot-file") {
		cfg.PlotFile = o.PlotFile
	}
	return cfg, nil
}

// Validate checks a completed configuration.
func (o *Options) Validate(cfg *config.EvolverConfiguration) error {
	if cfg.Workers > framework.MaxWorkers {
		return fmt.Errorf("%w: %d workers exceed the limit of %d", framework.ErrResourceExhausted, cfg.Workers, framework.MaxWorkers)
	}
	if errs := validation.ValidateEvolverConfiguration(cfg, true); len(errs) > 0 {
		return fmt.Errorf("%w: %w", framework.ErrInvalidConfiguration, errs.ToAggregate())
	}
	return nil
}

func (o *Options) changed(name string) bool {
	if o.Flags == nil {
		return false
	}
	return o.Flags.FlagSet("evolver").Changed(name)
}
