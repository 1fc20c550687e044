package plotting

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
)

type ScaleKind int

const (
	Linear ScaleKind = iota
	Log
	Symlog
)

// Scale describes the value axis. Min and Max pin the axis limits when Fixed
// is set. Threshold is the symlog linear range; zero picks the smallest
// positive magnitude in the data.
type Scale struct {
	Kind      ScaleKind
	Fixed     bool
	Min, Max  float64
	Threshold float64
}

func LinearScale() Scale { return Scale{Kind: Linear} }

func LogScale() Scale { return Scale{Kind: Log} }

func SymlogScale(threshold float64) Scale { return Scale{Kind: Symlog, Threshold: threshold} }

// WithLimits pins the axis range.
func (s Scale) WithLimits(min, max float64) Scale {
	s.Fixed = true
	s.Min = min
	s.Max = max
	return s
}

// applyScale configures p.Y once every plotter has been added.
func applyScale(p *plot.Plot, s Scale, values []float64) {
	switch s.Kind {
	case Log:
		lo, hi, ok := positiveRange(values)
		if s.Fixed {
			lo, hi, ok = s.Min, s.Max, s.Min > 0 && s.Max > s.Min
		}
		if !ok {
			break
		}
		p.Y.Min, p.Y.Max = lo, hi
		p.Y.Scale = clampedLog{}
		p.Y.Tick.Marker = powerTicks{}
		return
	case Symlog:
		t := s.Threshold
		if t <= 0 {
			t = SmallestPositive(values)
		}
		if t <= 0 || math.IsNaN(t) {
			break
		}
		p.Y.Scale = symlog{threshold: t}
		p.Y.Tick.Marker = symlogTicks{threshold: t}
	}
	if s.Fixed {
		p.Y.Min, p.Y.Max = s.Min, s.Max
	}
}

// SmallestPositive returns the smallest value above zero, or NaN when there
// is none.
func SmallestPositive(values []float64) float64 {
	lo := math.Inf(1)
	for _, v := range values {
		if v > 0 && v < lo {
			lo = v
		}
	}
	if math.IsInf(lo, 1) {
		return math.NaN()
	}
	return lo
}

// LargestPositive is the counterpart of SmallestPositive.
func LargestPositive(values []float64) float64 {
	hi := math.Inf(-1)
	for _, v := range values {
		if v > 0 && !math.IsInf(v, 1) && v > hi {
			hi = v
		}
	}
	if math.IsInf(hi, -1) {
		return math.NaN()
	}
	return hi
}

func positiveRange(values []float64) (lo, hi float64, ok bool) {
	lo, hi = SmallestPositive(values), LargestPositive(values)
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return 0, 0, false
	}
	if lo == hi {
		lo, hi = lo/10, hi*10
	}
	return lo, hi, true
}

// clampedLog is a log10 scale that pins values at or below the axis minimum
// to the bottom edge, so zeros are drawn instead of panicking.
type clampedLog struct{}

func (clampedLog) Normalize(min, max, x float64) float64 {
	if x < min || x <= 0 {
		x = min
	}
	lo, hi := math.Log10(min), math.Log10(max)
	if hi == lo {
		return 0.5
	}
	return (math.Log10(x) - lo) / (hi - lo)
}

type powerTicks struct{}

func (powerTicks) Ticks(min, max float64) []plot.Tick {
	if min <= 0 || max <= 0 {
		return nil
	}
	first := int(math.Floor(math.Log10(min) + 1e-9))
	last := int(math.Ceil(math.Log10(max) - 1e-9))
	step := 1
	if span := last - first; span > 8 {
		step = (span + 7) / 8
	}
	var ticks []plot.Tick
	for k := first; k <= last; k++ {
		v := math.Pow10(k)
		label := ""
		if (k-first)%step == 0 {
			label = fmt.Sprintf("1e%d", k)
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: label})
	}
	return ticks
}

// symlog is linear within [-threshold, threshold] and logarithmic outside.
type symlog struct {
	threshold float64
}

func (s symlog) forward(x float64) float64 {
	ax := math.Abs(x)
	if ax <= s.threshold {
		return x / s.threshold
	}
	return math.Copysign(1+math.Log10(ax/s.threshold), x)
}

func (s symlog) Normalize(min, max, x float64) float64 {
	lo, hi := s.forward(min), s.forward(max)
	if hi == lo {
		return 0.5
	}
	return (s.forward(x) - lo) / (hi - lo)
}

type symlogTicks struct {
	threshold float64
}

func (t symlogTicks) Ticks(min, max float64) []plot.Tick {
	ticks := []plot.Tick{{Value: 0, Label: "0"}}
	for v := t.threshold; v <= max*10 && !math.IsInf(v, 1); v *= 10 {
		ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf("%.0e", v)})
	}
	for v := -t.threshold; v >= min*10 && !math.IsInf(v, -1); v *= 10 {
		ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf("%.0e", v)})
	}
	return ticks
}
