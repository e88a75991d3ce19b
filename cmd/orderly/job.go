package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fine-structures/orderly/lib/filter"
	"github.com/fine-structures/orderly/lib/graph"
	"github.com/pkg/errors"
)

const (
	ModeCanonical = "canonical"
	ModeDegSeq    = "degseq"
)

// Job describes one run of the driver.  It is read from a TOML job file and flags given explicitly override it.
type Job struct {
	MinOrder  int    `toml:"min_order"` // 0 denotes MaxOrder
	MaxOrder  int    `toml:"max_order"`
	Mode      string `toml:"mode"`    // ModeCanonical or ModeDegSeq
	Filter    string `toml:"filter"`  // expression for filter.Parse
	Out       string `toml:"out"`     // file appended with each connected graph; a "%d" is replaced by the order
	Graph6    bool   `toml:"graph6"`  // write graph6 lines instead of adjacency matrices
	Workers   int    `toml:"workers"` // <= 1 denotes 1
	Verbosity int    `toml:"verbosity"`
}

func DefaultJob() Job {
	return Job{
		Mode:      ModeCanonical,
		Workers:   1,
		Verbosity: 1,
	}
}

// LoadJob decodes the TOML job file at pathname into job.  Keys that job has no field for are an error.
func LoadJob(pathname string, job *Job) error {
	md, err := toml.DecodeFile(pathname, job)
	if err != nil {
		return errors.Wrapf(err, "job file %q", pathname)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.Wrapf(graph.ErrInvalidArgument, "job file %q: unknown key %q", pathname, undecoded[0].String())
	}
	return nil
}

// ParseJob reads the job file named by -config (if any) and then applies each flag present in args.
func ParseJob(args []string) (Job, error) {
	fset := flag.NewFlagSet("orderly", flag.ContinueOnError)

	var (
		flags  = DefaultJob()
		config string
	)
	fset.StringVar(&config, "config", "", "TOML job file (flags given explicitly override it)")
	fset.IntVar(&flags.MaxOrder, "n", flags.MaxOrder, "largest order to generate")
	fset.IntVar(&flags.MinOrder, "min", flags.MinOrder, "smallest order to generate (0 denotes -n)")
	fset.StringVar(&flags.Mode, "mode", flags.Mode, "generator: "+ModeCanonical+" or "+ModeDegSeq)
	fset.StringVar(&flags.Filter, "filter", flags.Filter, "filter expression, e.g. \"diamondfree\" or \"girth(5)\"")
	fset.StringVar(&flags.Out, "out", flags.Out, "file appended with each connected graph (\"%d\" is replaced by the order)")
	fset.BoolVar(&flags.Graph6, "g6", flags.Graph6, "write graph6 lines instead of adjacency matrices")
	fset.IntVar(&flags.Workers, "workers", flags.Workers, "tasks run concurrently")
	fset.IntVar(&flags.Verbosity, "v", flags.Verbosity, "log verbosity")

	if err := fset.Parse(args); err != nil {
		return Job{}, err
	}
	if fset.NArg() > 0 {
		return Job{}, errors.Wrapf(graph.ErrInvalidArgument, "unexpected argument %q", fset.Arg(0))
	}

	job := DefaultJob()
	if config != "" {
		if err := LoadJob(config, &job); err != nil {
			return Job{}, err
		}
	}

	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			job.MaxOrder = flags.MaxOrder
		case "min":
			job.MinOrder = flags.MinOrder
		case "mode":
			job.Mode = flags.Mode
		case "filter":
			job.Filter = flags.Filter
		case "out":
			job.Out = flags.Out
		case "g6":
			job.Graph6 = flags.Graph6
		case "workers":
			job.Workers = flags.Workers
		case "v":
			job.Verbosity = flags.Verbosity
		}
	})

	if err := job.Validate(); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Validate checks job and fills in defaults.
func (job *Job) Validate() error {
	if job.MaxOrder < 1 || job.MaxOrder > graph.MaxOrder {
		return errors.Wrapf(graph.ErrInvalidSize, "max order %d (use -n)", job.MaxOrder)
	}
	if job.MinOrder == 0 {
		job.MinOrder = job.MaxOrder
	}
	if job.MinOrder < 1 || job.MinOrder > job.MaxOrder {
		return errors.Wrapf(graph.ErrInvalidSize, "min order %d", job.MinOrder)
	}
	switch job.Mode {
	case ModeCanonical, ModeDegSeq:
	default:
		return errors.Wrapf(graph.ErrInvalidArgument, "unknown mode %q", job.Mode)
	}
	if _, err := filter.Parse(job.Filter); err != nil {
		return err
	}
	if job.Workers < 1 {
		job.Workers = 1
	}
	return nil
}

// OutPathname returns the file that graphs of the given order are appended to ("" denotes none).
func (job *Job) OutPathname(order int) string {
	if strings.Contains(job.Out, "%d") {
		return fmt.Sprintf(job.Out, order)
	}
	return job.Out
}
