package report

import (
	"errors"
	"fmt"

	"evoagg/internal/model"
	"evoagg/internal/plotting"
	"evoagg/internal/stats"
)

const (
	gridRows = 4
	gridCols = 5
)

// MSE draws one grid per (iteration path, objective count): a panel per combo
// with network size on x and objective as hue.
func (r *Reporter) MSE(rows []model.FitnessRow) ([]string, error) {
	var written []string
	for _, iter := range stats.Distinct(rows, stats.FitnessFields, stats.ColIterPath) {
		iterRows := filterFitness(rows, stats.ColIterPath, iter)
		for _, numObj := range stats.Distinct(iterRows, stats.FitnessFields, stats.ColNumObj) {
			subset := filterFitness(iterRows, stats.ColNumObj, numObj)
			fmt.Fprintf(r.Out, "figure iter_path=%s num_obj=%s rows=%d\n", iter, numObj, len(subset))

			fig := plotting.NewFigure(fmt.Sprintf("Iteration path %s, %s objectives", iter, numObj), gridRows, gridCols)
			row, col := 0, 0
			for _, combo := range stats.Distinct(subset, stats.FitnessFields, stats.ColCombo) {
				if col >= gridCols {
					return written, fmt.Errorf("iter_path=%s num_obj=%s: more than %d combos", iter, numObj, gridRows*gridCols)
				}
				panel := plotting.Panel{
					Title:  "Combo " + combo,
					XLabel: "network_size",
					YLabel: "MSE",
					Scale:  plotting.LogScale(),
				}
				g := groupFitness(filterFitness(subset, stats.ColCombo, combo), stats.ColNetworkSize, stats.ColObjective)
				p, err := plotting.BoxPlot(g, panel, r.Style)
				if err != nil {
					return written, fmt.Errorf("combo %s: %w", combo, err)
				}
				if err := fig.Set(row, col, p); err != nil {
					return written, err
				}
				row++
				if row%gridRows == 0 {
					col++
					row = 0
				}
			}

			path := r.path(fmt.Sprintf("%s_%s.png", iter, numObj))
			if err := fig.Save(path, r.gridStyle(gridRows, gridCols)); err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	return written, nil
}

// FiveObjectives compares the five objective experiments of every set.
func (r *Reporter) FiveObjectives(rows []model.FitnessRow) (string, error) {
	five := filterFitness(rows, stats.ColNumObj, "5")
	iters := stats.Distinct(five, stats.FitnessFields, stats.ColIterPath)
	if len(iters) == 0 {
		return "", fmt.Errorf("five objective experiments: %w", plotting.ErrNoData)
	}
	fig := plotting.NewFigure("Five Objective Experiments", 1, len(iters))
	for i, iter := range iters {
		g := groupFitness(filterFitness(five, stats.ColIterPath, iter), stats.ColObjective, stats.ColNetworkSize)
		p, err := plotting.BoxPlot(g, plotting.Panel{
			Title:  setTitle(iter),
			XLabel: "objective",
			YLabel: "MSE",
			Scale:  plotting.LogScale(),
		}, r.Style)
		if err != nil {
			return "", err
		}
		if err := fig.Set(0, i, p); err != nil {
			return "", err
		}
	}
	path := r.path("five_objectives.png")
	return path, fig.Save(path, r.gridStyle(1, len(iters)))
}

// SetPerformance draws mean error bars per objective and network size for
// every set.
func (r *Reporter) SetPerformance(rows []model.FitnessRow) (string, error) {
	iters := stats.Distinct(rows, stats.FitnessFields, stats.ColIterPath)
	if len(iters) == 0 {
		return "", fmt.Errorf("set performance: %w", plotting.ErrNoData)
	}
	style := r.Style.WithFontSize(r.Style.FontSize * 11 / 12)
	fig := plotting.NewFigure("Error of Experiments Within Each Set", 1, len(iters))
	for i, iter := range iters {
		g := groupFitness(filterFitness(rows, stats.ColIterPath, iter), stats.ColObjective, stats.ColNetworkSize)
		p, err := plotting.BarPlot(g, plotting.Panel{
			Title:    setTitle(iter),
			XLabel:   "objective",
			YLabel:   "Error",
			HueTitle: "network_size",
			Scale:    plotting.LogScale().WithLimits(1e-10, 1e4),
		}, style)
		if err != nil {
			return "", err
		}
		if err := fig.Set(0, i, p); err != nil {
			return "", err
		}
	}
	path := r.path("set_performance.png")
	return path, fig.Save(path, style.WithSize(style.Width*vgLen(len(iters)), style.Height))
}

// DistOptions selects the experiments summarised by DegreeDistribution.
type DistOptions struct {
	IterPath    string
	NetworkSize int
	NumObj      string
}

func DefaultDistOptions() DistOptions {
	return DistOptions{IterPath: "0", NetworkSize: 100, NumObj: "4"}
}

// DegreeDistribution prints the degree distribution errors of one slice of
// experiments, then the mean error of the set with and without degree
// distribution objectives.
func (r *Reporter) DegreeDistribution(rows []model.FitnessRow, opts DistOptions) error {
	selected := stats.Filter(rows, func(row model.FitnessRow) bool {
		return row.IterPath == opts.IterPath && row.NetworkSize == opts.NetworkSize && row.NumObj == opts.NumObj
	})
	dd := stats.DegreeDistributionRows(selected)
	keys := []stats.Column{stats.ColIterPath, stats.ColNumObj, stats.ColCombo, stats.ColObjective}
	groups := stats.GroupMeans(dd, stats.FitnessFields, stats.FitnessMSE, keys, stats.IncludeZeros)
	r.printTable(groupTable(keys, []string{"MSE"}, [][]stats.Group{groups}))
	fmt.Fprintf(r.Out, "dd_mean iter_path=%s network_size=%d num_obj=%s mse=%s\n",
		opts.IterPath, opts.NetworkSize, opts.NumObj, formatValue(stats.Mean(stats.FitnessValues(dd))))

	with, without := stats.PartitionDegreeDistribution(filterFitness(rows, stats.ColIterPath, opts.IterPath))
	fmt.Fprintf(r.Out, "no_dd_mean iter_path=%s mse=%s\n", opts.IterPath, formatValue(stats.Mean(stats.FitnessValues(without))))
	fmt.Fprintf(r.Out, "with_dd_mean iter_path=%s mse=%s\n", opts.IterPath, formatValue(stats.Mean(stats.FitnessValues(with))))
	return nil
}

// Interactions summarises how objectives without degree distributions
// interact, then draws their error by objective count and network size.
func (r *Reporter) Interactions(rows []model.FitnessRow, numObj string) (string, error) {
	_, subset := stats.PartitionDegreeDistribution(filterFitness(rows, stats.ColNumObj, numObj))
	keys := []stats.Column{stats.ColIterPath, stats.ColCombo}
	for _, size := range stats.Distinct(subset, stats.FitnessFields, stats.ColNetworkSize) {
		sized := filterFitness(subset, stats.ColNetworkSize, size)
		groups := stats.GroupMeans(sized, stats.FitnessFields, stats.FitnessMSE, keys, stats.IncludeZeros)
		fmt.Fprintf(r.Out, "network_size=%s num_obj=%s\n", size, numObj)
		r.printTable(groupTable(keys, []string{"MSE"}, [][]stats.Group{groups}))
		fmt.Fprintf(r.Out, "nonzero_mean network_size=%s mse=%s\n", size, formatValue(stats.MeanExcludingZeros(stats.GroupMeanValues(groups))))
	}

	with, without := stats.PartitionDegreeDistribution(rows)
	sizeKeys := []stats.Column{stats.ColNumObj, stats.ColNetworkSize}
	for _, part := range []struct {
		name string
		rows []model.FitnessRow
	}{
		{name: "no_dd", rows: without},
		{name: "all", rows: rows},
		{name: "with_dd", rows: with},
	} {
		fmt.Fprintf(r.Out, "partition=%s\n", part.name)
		groups := stats.GroupMeans(part.rows, stats.FitnessFields, stats.FitnessMSE, sizeKeys, stats.IncludeZeros)
		r.printTable(groupTable(sizeKeys, []string{"MSE"}, [][]stats.Group{groups}))
	}

	path := r.path("interactions_no_dd.png")
	err := r.errorBoxPlot(without, path, "Average Error of Experiments Not Including Degree Distribution", 1, 1)
	return path, err
}

// Final draws the error of experiments without degree distributions and the
// error of the degree distribution objectives themselves.
func (r *Reporter) Final(rows []model.FitnessRow) ([]string, error) {
	_, without := stats.PartitionDegreeDistribution(rows)
	noDD := r.path("error_no_dd.png")
	if err := r.errorBoxPlot(without, noDD, "Error of Experiments Not Including Degree Distribution", 1, 1); err != nil {
		return nil, err
	}
	dd := r.path("error_dd.png")
	if err := r.errorBoxPlot(stats.DegreeDistributionRows(rows), dd, "Degree Distribution Error", 0.25, 2); err != nil {
		return []string{noDD}, err
	}
	return []string{noDD, dd}, nil
}

// errorBoxPlot draws MSE by objective count and network size on a symlog
// axis whose linear range is the smallest positive error. The axis runs from
// -lowPad*t to max+highPad*t.
func (r *Reporter) errorBoxPlot(rows []model.FitnessRow, path, title string, lowPad, highPad float64) error {
	values := stats.FitnessValues(rows)
	t := plotting.SmallestPositive(values)
	hi := plotting.LargestPositive(values)
	scale := plotting.LinearScale()
	if t > 0 && hi > 0 {
		scale = plotting.SymlogScale(t).WithLimits(-t*lowPad, hi+t*highPad)
	}
	g := groupFitness(rows, stats.ColNumObj, stats.ColNetworkSize)
	p, err := plotting.BoxPlot(g, plotting.Panel{
		Title:    title,
		XLabel:   "Number of Objectives",
		YLabel:   "Error",
		HueTitle: "network_size",
		Scale:    scale,
	}, r.Style)
	if err != nil {
		if errors.Is(err, plotting.ErrNoData) {
			return fmt.Errorf("%s: %w", title, err)
		}
		return err
	}
	return plotting.Save(p, path, r.Style)
}

// PosterError is the poster version of error by objective count.
func (r *Reporter) PosterError(rows []model.FitnessRow) (string, error) {
	style := r.posterStyle(1)
	g := groupFitness(rows, stats.ColNumObj, stats.ColNetworkSize)
	p, err := plotting.BarPlot(g, plotting.Panel{
		Title:    "Error of Experiments",
		XLabel:   "Number of Constrained Properties",
		YLabel:   "Error",
		HueTitle: "Graph Size",
		Scale:    plotting.LogScale(),
	}, style)
	if err != nil {
		return "", fmt.Errorf("poster error: %w", err)
	}
	path := r.path("poster.png")
	return path, plotting.Save(p, path, style)
}
