package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	walker "github.com/fine-structures/orderly/gen/graph-walker"
	"github.com/fine-structures/orderly/lib/catalog"
	"github.com/fine-structures/orderly/lib/degseq"
	"github.com/fine-structures/orderly/lib/filter"
	"github.com/fine-structures/orderly/orderly"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

func main() {

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	job, err := ParseJob(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fset.Set("v", strconv.Itoa(job.Verbosity))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, job, os.Stdout)
	stop()

	if err != nil {
		klog.Errorf("orderly: %v", err)
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}

// run generates each order of job in turn, appends the connected graphs to the job's output file,
// and writes a census summary line per order to summary.
func run(ctx context.Context, job Job, summary io.Writer) error {
	f, err := filter.Parse(job.Filter)
	if err != nil {
		return err
	}

	var cat *catalog.CertSet
	if job.Mode == ModeDegSeq {
		catCtx := orderly.NewCatalogContext()
		defer func() {
			catCtx.Close()
			<-catCtx.Done()
		}()
		cat, err = catalog.OpenCertSet(catCtx, orderly.CatalogOpts{})
		if err != nil {
			return err
		}
	}

	klog.Infof("generating orders %d..%d (%s, filter %q)", job.MinOrder, job.MaxOrder, job.Mode, f.Name())

	for order := job.MinOrder; order <= job.MaxOrder; order++ {
		start := time.Now()

		var stream *orderly.GraphStream
		switch job.Mode {
		case ModeCanonical:
			res, err := walker.Generate(ctx, walker.EnumOpts{
				TargetOrder: order,
				Filter:      f,
				Workers:     job.Workers,
			})
			if err != nil {
				return err
			}
			stream = orderly.StreamGraphs(res.Graphs...)

		case ModeDegSeq:
			stats, err := degseq.EnumerateAll(ctx, order, degseq.Opts{
				Filter:        f,
				ConnectedOnly: true,
				Workers:       job.Workers,
			}, cat)
			if err != nil {
				return err
			}
			klog.V(1).Infof("order %d: %d of %d degree sequences graphical, %d realizations", order, stats.Graphical, stats.Sequences, stats.Generated)

			sel := orderly.DefaultGraphSelector
			sel.MinOrder, sel.MaxOrder = order, order
			stream = orderly.SelectFromCatalog(cat, sel)
		}

		sel := orderly.DefaultGraphSelector
		sel.ConnectedOnly = true
		stream = stream.Select(sel)

		if pathname := job.OutPathname(order); pathname != "" {
			file, err := openForAppend(pathname)
			if err != nil {
				return err
			}
			opts := orderly.DefaultPrintOpts
			if job.Graph6 {
				opts = orderly.PrintOpts{Graph6: true}
			}
			stream = stream.Print(file, opts)
		}

		census := orderly.NewCensus()
		stream.AddTo(census).PullAll()

		report := census.Report()
		report.WriteSummary(summary, fmt.Sprintf("order %d", order))
		klog.V(1).Infof("order %d done (%v)", order, time.Since(start))
	}
	return nil
}

func openForAppend(pathname string) (*os.File, error) {
	if dir := filepath.Dir(pathname); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(pathname, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "output file %q", pathname)
	}
	return file, nil
}
