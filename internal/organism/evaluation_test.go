package organism

import (
	"errors"
	"math"
	"testing"

	"evoagg/internal/objective"
)

// three nodes: 0->1 (+0.5), 1->0 (-0.25), 1->2 (-0.75), 2->1 (-0.5), self loop on 2 (+1).
func sampleOrganism() Organism {
	return Organism{AdjacencyMatrix: [][]float64{
		{0, 0.5, 0},
		{-0.25, 0, -0.75},
		{0, -0.5, 1},
	}}
}

func evaluateScalar(t *testing.T, e *Evaluation, name string, org Organism) float64 {
	t.Helper()
	f, ok := e.Property(name)
	if !ok {
		t.Fatalf("property %s not registered", name)
	}
	v := f(org)
	if v.IsVector() {
		t.Fatalf("property %s returned vector %v", name, v.Vector)
	}
	return v.Scalar
}

func TestEvaluationScalarProperties(t *testing.T) {
	e := NewEvaluation(EvalConfig{NetworkSize: 3})
	org := sampleOrganism()

	cases := map[string]float64{
		objective.Connectance:         5.0 / 9.0,
		objective.AvgPositiveStrength: 0.75,
		objective.AvgNegativeStrength: -0.5,
		objective.CompetitionPairs:    1,
		objective.PositiveProportion:  0.4,
		objective.StrongComponents:    1,
		objective.SelfLoopProportion:  1.0 / 3.0,
	}
	for name, want := range cases {
		got := evaluateScalar(t, e, name, org)
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("%s=%v want=%v", name, got, want)
		}
	}
}

func TestEvaluationStrongComponentsCountsIsolatedNodes(t *testing.T) {
	e := NewEvaluation(EvalConfig{NetworkSize: 4})
	org := Organism{AdjacencyMatrix: [][]float64{
		{0, 1, 0, 0},
		{1, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 1, 0},
	}}
	if got := evaluateScalar(t, e, objective.StrongComponents, org); got != 3 {
		t.Fatalf("expected 3 strong components, got %v", got)
	}
}

func TestEvaluationDegreeDistributions(t *testing.T) {
	e := NewEvaluation(EvalConfig{NetworkSize: 3})
	org := sampleOrganism()

	in, err := e.Evaluate(objective.InDegreeDistribution, []Organism{org})
	if err != nil {
		t.Fatalf("evaluate in-degree: %v", err)
	}
	// in-degrees: node0=1, node1=2, node2=2
	want := []float64{0, 1.0 / 3.0, 2.0 / 3.0, 0}
	if len(in[0].Vector) != len(want) {
		t.Fatalf("unexpected in-degree length: %v", in[0].Vector)
	}
	for i := range want {
		if math.Abs(in[0].Vector[i]-want[i]) > 1e-12 {
			t.Fatalf("unexpected in-degree distribution: %v", in[0].Vector)
		}
	}

	out, err := e.Evaluate(objective.OutDegreeDistribution, []Organism{org})
	if err != nil {
		t.Fatalf("evaluate out-degree: %v", err)
	}
	// out-degrees: node0=1, node1=2, node2=2
	for i := range want {
		if math.Abs(out[0].Vector[i]-want[i]) > 1e-12 {
			t.Fatalf("unexpected out-degree distribution: %v", out[0].Vector)
		}
	}
}

func TestEvaluationEveryPropertyOfInterestIsRegistered(t *testing.T) {
	e := NewEvaluation(EvalConfig{})
	for _, name := range objective.OfInterest {
		if _, ok := e.Property(name); !ok {
			t.Fatalf("missing property %s", name)
		}
	}
	if _, err := e.Evaluate("modularity", nil); !errors.Is(err, ErrUnknownProperty) {
		t.Fatalf("expected unknown property error, got %v", err)
	}
}

func TestEvaluationRejectsOrganismsOfAnotherNetworkSize(t *testing.T) {
	e := NewEvaluation(EvalConfig{NetworkSize: 3})
	small := Organism{AdjacencyMatrix: [][]float64{{0, 1}, {1, 0}}}
	if _, err := e.Evaluate(objective.Connectance, []Organism{sampleOrganism(), small}); !errors.Is(err, ErrNetworkSize) {
		t.Fatalf("expected network size error, got %v", err)
	}

	unsized := NewEvaluation(EvalConfig{})
	values, err := unsized.Evaluate(objective.InDegreeDistribution, []Organism{sampleOrganism(), small})
	if err != nil {
		t.Fatalf("evaluate without network size: %v", err)
	}
	if len(values[0].Vector) != 4 || len(values[1].Vector) != 3 {
		t.Fatalf("unexpected distribution lengths: %v %v", values[0].Vector, values[1].Vector)
	}
}

func TestCountDistinct(t *testing.T) {
	values := []Value{
		{Scalar: 0.5},
		{Scalar: 0.5},
		{Scalar: 0},
		{Scalar: math.Copysign(0, -1)},
		{Vector: []float64{0.5, 0.5}},
		{Vector: []float64{0.5, 0.5}},
		{Vector: []float64{0.5}},
	}
	if got := CountDistinct(values); got != 4 {
		t.Fatalf("expected 4 distinct values, got %d", got)
	}
}

func TestValidate(t *testing.T) {
	if err := sampleOrganism().Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	bad := Organism{AdjacencyMatrix: [][]float64{{0, 1}, {1}}}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected ragged matrix error")
	}
}
