// Package report turns persisted aggregate tables into console summaries and
// figures. Reports only read snapshots; they never touch experiment data.
package report

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"

	"github.com/gosuri/uitable"
	"gonum.org/v1/plot/vg"

	"evoagg/internal/model"
	"evoagg/internal/plotting"
	"evoagg/internal/stats"
)

// Reporter writes console output to Out and figures under OutDir. Style is
// the size of a single panel; grid figures grow with their panel count.
type Reporter struct {
	Out    io.Writer
	OutDir string
	Style  plotting.Style
}

func New(out io.Writer, outDir string, style plotting.Style) *Reporter {
	if out == nil {
		out = io.Discard
	}
	return &Reporter{Out: out, OutDir: outDir, Style: style}
}

func (r *Reporter) path(name string) string {
	return filepath.Join(r.OutDir, name)
}

// gridStyle sizes a figure of rows x cols panels.
func (r *Reporter) gridStyle(rows, cols int) plotting.Style {
	return r.Style.WithSize(r.Style.Width*vgLen(cols), r.Style.Height*vgLen(rows))
}

// posterStyle is the large-type transparent look used for poster figures.
func (r *Reporter) posterStyle(heightRatio float64) plotting.Style {
	s := r.Style.WithFontSize(r.Style.FontSize * 20 / 12)
	s = s.WithSize(r.Style.Width, vg.Length(float64(r.Style.Width)*heightRatio))
	s.Transparent = true
	if greens, err := s.WithPalette(plotting.GreensPalette); err == nil {
		s = greens
	}
	return s
}

func newTable() *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 40
	table.Wrap = false
	return table
}

func (r *Reporter) printTable(table *uitable.Table) {
	fmt.Fprintln(r.Out, table.String())
}

// groupTable renders groups with their key columns followed by value columns.
func groupTable(keys []stats.Column, valueNames []string, groups [][]stats.Group) *uitable.Table {
	table := newTable()
	header := make([]interface{}, 0, len(keys)+len(valueNames))
	for _, k := range keys {
		header = append(header, k.String())
	}
	for _, name := range valueNames {
		header = append(header, name)
	}
	table.AddRow(header...)
	if len(groups) == 0 {
		return table
	}
	for i, g := range groups[0] {
		row := make([]interface{}, 0, len(header))
		for _, k := range g.Key {
			row = append(row, k)
		}
		for _, column := range groups {
			row = append(row, formatValue(column[i].Mean))
		}
		table.AddRow(row...)
	}
	return table
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// groupFitness arranges MSE values by two columns for box and bar plots.
func groupFitness(rows []model.FitnessRow, x, hue stats.Column) *plotting.Grouped {
	g := plotting.NewGrouped(
		stats.Distinct(rows, stats.FitnessFields, x),
		stats.Distinct(rows, stats.FitnessFields, hue),
	)
	for _, row := range rows {
		f := stats.FitnessFields(row)
		g.Add(f.Value(x), f.Value(hue), row.MSE)
	}
	return g
}

func filterFitness(rows []model.FitnessRow, c stats.Column, value string) []model.FitnessRow {
	return stats.Filter(rows, func(row model.FitnessRow) bool {
		return stats.FitnessFields(row).Value(c) == value
	})
}

// setTitle names iteration paths the way they are presented: path 0 is Set 1.
func setTitle(iterPath string) string {
	n, err := strconv.Atoi(iterPath)
	if err != nil {
		return "Set " + iterPath
	}
	return fmt.Sprintf("Set %d", n+1)
}

func vgLen(n int) vg.Length {
	return vg.Length(n)
}
