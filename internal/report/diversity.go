package report

import (
	"fmt"
	"strconv"

	"evoagg/internal/model"
	"evoagg/internal/plotting"
	"evoagg/internal/stats"
)

// Entropy prints the diversity of the unselected probe property across the
// perfect replicates of one set.
func (r *Reporter) Entropy(rows []model.EntropyRow, set int) error {
	sel, ok := stats.DiversityForSet(set)
	if !ok {
		return fmt.Errorf("no diversity selection for set %d", set)
	}
	selected := stats.SelectDiversity(rows, sel)
	keys := []stats.Column{stats.ColIterPath, stats.ColNetworkSize, stats.ColNumObj, stats.ColCombo, stats.ColObjective}

	columns := make([][]stats.Group, 0, len(stats.Measures))
	names := make([]string, 0, len(stats.Measures))
	for _, m := range stats.Measures {
		columns = append(columns, stats.GroupMeans(selected, stats.EntropyFields, m.Value, keys, stats.IncludeZeros))
		names = append(names, string(m))
	}
	fmt.Fprintf(r.Out, "diversity selection=%s iter_path=%s probe=%q rows=%d\n", sel.Label, sel.IterPath, sel.Probe, len(selected))
	r.printTable(groupTable(keys, names, columns))

	for _, m := range stats.Measures {
		values := make([]float64, len(selected))
		for i, row := range selected {
			values[i] = m.Value(row)
		}
		fmt.Fprintf(r.Out, "overall_mean measure=%s value=%s\n", m, formatValue(stats.Mean(values)))
	}
	return nil
}

// PosterDiversity compares a diversity measure of topological and edge-weight
// selections by network size.
func (r *Reporter) PosterDiversity(rows []model.EntropyRow, measure stats.Measure) (string, error) {
	groups := []stats.DiversitySelection{stats.EdgeWeightDiversity, stats.TopologicalDiversity}
	categories := make([]string, 0, len(groups))
	var sizes []string
	selections := make([][]model.EntropyRow, len(groups))
	for i, sel := range groups {
		categories = append(categories, sel.Label)
		selections[i] = stats.SelectDiversity(rows, sel)
		for _, row := range selections[i] {
			sizes = append(sizes, strconv.Itoa(row.NetworkSize))
		}
	}
	stats.SortDistinct(&sizes)

	g := plotting.NewGrouped(categories, sizes)
	for i, sel := range groups {
		for _, row := range selections[i] {
			g.Add(sel.Label, strconv.Itoa(row.NetworkSize), measure.Value(row))
		}
	}

	style := r.posterStyle(0.5)
	p, err := plotting.BarPlot(g, plotting.Panel{
		Title:    "Diversity of Experiments",
		XLabel:   "Type of Constrained Properties",
		YLabel:   string(measure),
		HueTitle: "Graph Size",
	}, style)
	if err != nil {
		return "", fmt.Errorf("poster diversity: %w", err)
	}
	path := r.path(string(measure) + ".png")
	return path, plotting.Save(p, path, style)
}
