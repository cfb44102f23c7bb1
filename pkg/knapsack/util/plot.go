package util

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/mihai-snyk/knapsack-ga/pkg/knapsack/framework"
)

// PlotFileName is the file PlotProgressFile writes to when no path is given.
func PlotFileName(problemName, algorithmName string) string {
	return fmt.Sprintf("%s_%s_progress.html", problemName, algorithmName)
}

// PlotProgress renders a line chart of the best and mean fitness of every
// reported generation as a standalone HTML page.
func PlotProgress(w io.Writer, reports []framework.Report, problemName, algorithmName string) error {
	if len(reports) == 0 {
		return fmt.Errorf("no reports to plot for %s", problemName)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s progress on %s", algorithmName, problemName),
			Subtitle: fmt.Sprintf("best fitness %d after %d generations", reports[len(reports)-1].BestFitness, reports[len(reports)-1].Generation),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "generation",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "fitness",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	generations := make([]string, len(reports))
	best := make([]opts.LineData, len(reports))
	mean := make([]opts.LineData, len(reports))
	for i, r := range reports {
		generations[i] = strconv.Itoa(r.Generation)
		best[i] = opts.LineData{Value: r.BestFitness, Symbol: "circle", SymbolSize: 6}
		mean[i] = opts.LineData{Value: r.MeanFitness, Symbol: "triangle", SymbolSize: 6}
	}

	line.SetXAxis(generations).
		AddSeries("Best fitness", best).
		AddSeries("Mean fitness", mean).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{Step: "end"}),
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	return line.Render(w)
}

// PlotProgressFile is PlotProgress writing to path, or to PlotFileName in the
// working directory when path is empty.
func PlotProgressFile(path string, reports []framework.Report, problemName, algorithmName string) (string, error) {
	if path == "" {
		path = PlotFileName(problemName, algorithmName)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := PlotProgress(f, reports, problemName, algorithmName); err != nil {
		return "", err
	}
	return path, f.Close()
}
