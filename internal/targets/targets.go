// Package targets builds the target degree distributions experiments are
// configured with and the reference samples shown next to them.
package targets

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Exponential is the exponential degree distribution for networks of n nodes:
// an exponential density shifted to start at degree 1 with scale n/5,
// quantised to multiples of 1/n. Networks of 10 nodes round down.
func Exponential(n int) []float64 {
	if n <= 0 {
		return nil
	}
	inv := 1 / float64(n)
	dist := distuv.Exponential{Rate: 5 / float64(n)}
	quantise := math.RoundToEven
	if n == 10 {
		quantise = math.Floor
	}
	out := make([]float64, n+1)
	for x := range out {
		out[x] = inv * quantise(dist.Prob(float64(x)-1)/inv)
	}
	return out
}

// Normal is the normal degree distribution for networks of n nodes, centred
// on n/4 with standard deviation n/10 and quantised to multiples of 1/n.
func Normal(n int) []float64 {
	if n <= 0 {
		return nil
	}
	inv := 1 / float64(n)
	dist := distuv.Normal{Mu: float64(n) / 4, Sigma: float64(n) / 10}
	out := make([]float64, n+1)
	for x := range out {
		out[x] = inv * math.RoundToEven(dist.Prob(float64(x))/inv)
	}
	return out
}

// Degrees is the x axis shared by both distributions.
func Degrees(n int) []float64 {
	if n < 0 {
		return nil
	}
	out := make([]float64, n+1)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

const (
	SampleNormal  = "normal"
	SampleUniform = "uniform"
)

// Sample draws size values from the named unconstrained reference
// distribution: normal(0.5, 0.1) or uniform on [0, 1).
func Sample(kind string, size int, seed uint64) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("sample size must be positive, got %d", size)
	}
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	var dist distuv.Rander
	switch kind {
	case SampleNormal:
		dist = distuv.Normal{Mu: 0.5, Sigma: 0.1, Src: src}
	case SampleUniform:
		dist = distuv.Uniform{Min: 0, Max: 1, Src: src}
	default:
		return nil, fmt.Errorf("unknown sample distribution: %s", kind)
	}
	out := make([]float64, size)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out, nil
}
