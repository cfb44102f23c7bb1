package util

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/mihai-snyk/knapsack-ga/pkg/knapsack/framework"
)

// Recorder keeps every report it receives.
type Recorder struct {
	mu      sync.Mutex
	reports []framework.Report
}

var _ framework.Reporter = &Recorder{}

func (r *Recorder) Report(report framework.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
}

// Reports returns a copy of the reports received so far.
func (r *Recorder) Reports() []framework.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.reports)
}

// BestFitnessPrinter writes the best fitness of every report on its own line.
type BestFitnessPrinter struct {
	Out io.Writer
}

func (p BestFitnessPrinter) Report(report framework.Report) {
	fmt.Fprintf(p.Out, "%d\n", report.BestFitness)
}

// Reporters fans each report out to all of rs in order. Nil entries are
// skipped.
func Reporters(rs ...framework.Reporter) framework.Reporter {
	return framework.ReporterFunc(func(report framework.Report) {
		for _, r := range rs {
			if r != nil {
				r.Report(report)
			}
		}
	})
}
