package organism

import (
	"errors"
	"fmt"

	"evoagg/internal/objective"
)

var (
	ErrUnknownProperty = errors.New("unknown property")
	ErrNetworkSize     = errors.New("organism size does not match network size")
)

// PropertyFunc extracts one named property from an organism.
type PropertyFunc func(Organism) Value

// EvalConfig is the part of a run configuration the evaluation context needs.
// A zero NetworkSize accepts organisms of any size.
type EvalConfig struct {
	NetworkSize int
}

// Evaluation computes the properties of interest on demand. The property
// table is built once per construction.
type Evaluation struct {
	networkSize int
	funcs       map[string]PropertyFunc
}

func NewEvaluation(cfg EvalConfig) *Evaluation {
	return &Evaluation{
		networkSize: cfg.NetworkSize,
		funcs:       propertyTable(),
	}
}

func propertyTable() map[string]PropertyFunc {
	scalar := func(f func(Organism) float64) PropertyFunc {
		return func(o Organism) Value { return Value{Scalar: f(o)} }
	}
	table := map[string]PropertyFunc{
		objective.Connectance:         scalar(Organism.connectance),
		objective.AvgPositiveStrength: scalar(func(o Organism) float64 { return o.averageStrength(true) }),
		objective.AvgNegativeStrength: scalar(func(o Organism) float64 { return o.averageStrength(false) }),
		objective.CompetitionPairs:    scalar(Organism.competitionPairs),
		objective.PositiveProportion:  scalar(Organism.positiveProportion),
		objective.StrongComponents:    scalar(Organism.strongComponents),
		objective.SelfLoopProportion:  scalar(Organism.selfLoopProportion),
	}
	for _, name := range objective.OfInterest {
		if !objective.IsDistribution(name) {
			continue
		}
		in := name == objective.InDegreeDistribution
		table[name] = func(o Organism) Value {
			return Value{Vector: o.degreeDistribution(in)}
		}
	}
	return table
}

func (e *Evaluation) Property(name string) (PropertyFunc, bool) {
	f, ok := e.funcs[name]
	return f, ok
}

// Evaluate applies the named property to every organism in order. Organisms
// whose node count differs from the configured network size are rejected.
func (e *Evaluation) Evaluate(name string, population []Organism) ([]Value, error) {
	f, ok := e.Property(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}
	values := make([]Value, len(population))
	for i, org := range population {
		if e.networkSize > 0 && org.NumNodes() != e.networkSize {
			return nil, fmt.Errorf("%w: organism %d has %d nodes, want %d", ErrNetworkSize, i, org.NumNodes(), e.networkSize)
		}
		values[i] = f(org)
	}
	return values, nil
}
