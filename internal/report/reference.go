package report

import (
	"fmt"
	"image/color"

	"evoagg/internal/plotting"
	"evoagg/internal/targets"
)

var (
	targetColor        = color.RGBA{R: 0xff, G: 0x14, B: 0x93, A: 0xff}
	unconstrainedColor = color.RGBA{R: 0x44, G: 0x93, B: 0x5b, A: 0xff}
)

// TargetDistributions plots the exponential and normal target degree
// distributions of a network size side by side.
func (r *Reporter) TargetDistributions(networkSize int) (string, error) {
	if networkSize <= 0 {
		return "", fmt.Errorf("network size must be positive, got %d", networkSize)
	}
	degrees := targets.Degrees(networkSize)
	fig := plotting.NewFigure(fmt.Sprintf("Target Degree Distributions for Networks of Size %d", networkSize), 1, 2)
	for i, series := range []struct {
		title  string
		values []float64
	}{
		{title: "Exponential", values: targets.Exponential(networkSize)},
		{title: "Normal", values: targets.Normal(networkSize)},
	} {
		p, err := plotting.LinePlot(degrees, series.values, targetColor, plotting.Panel{
			Title:  series.title,
			XLabel: "Degree",
			YLabel: "Proportion of Nodes",
		}, r.Style)
		if err != nil {
			return "", err
		}
		if err := fig.Set(0, i, p); err != nil {
			return "", err
		}
	}
	path := r.path("target_distributions.png")
	return path, fig.Save(path, r.gridStyle(1, 2))
}

// Unconstrained draws proportion histograms of normal and uniform samples,
// the property distributions expected when nothing is constrained.
func (r *Reporter) Unconstrained(sampleSize int, seed uint64) ([]string, error) {
	style := r.posterStyle(7.0 / 8.0)
	var written []string
	for _, ref := range []struct {
		kind  string
		title string
		file  string
	}{
		{kind: targets.SampleNormal, title: "NSGA-II Unconstrained Property Distribution", file: "normal.png"},
		{kind: targets.SampleUniform, title: "Map-Elites Unconstrained Property Distribution", file: "uniform.png"},
	} {
		values, err := targets.Sample(ref.kind, sampleSize, seed)
		if err != nil {
			return written, err
		}
		p, err := plotting.Histogram(values, 10, unconstrainedColor, plotting.Panel{
			Title:  ref.title,
			XLabel: "Property Value",
			YLabel: "Proportion",
		}, style)
		if err != nil {
			return written, fmt.Errorf("%s: %w", ref.kind, err)
		}
		path := r.path(ref.file)
		if err := plotting.Save(p, path, style); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
