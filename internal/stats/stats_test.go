package stats

import (
	"math"
	"reflect"
	"testing"

	"evoagg/internal/model"
)

func fitnessRow(experiment, rep, objective string, mse float64) model.FitnessRow {
	meta := model.ExperimentMeta{Name: experiment, NumObj: "2", IterPath: "0", Combo: "1", NetworkSize: 10}
	return model.NewFitnessRow(meta, rep, objective, mse)
}

func entropyRow(experiment, iterPath, rep, objective string, selected bool, mse float64) model.EntropyRow {
	meta := model.ExperimentMeta{Name: experiment, NumObj: "2", IterPath: iterPath, Combo: "1", NetworkSize: 10}
	r := model.NewEntropyRow(meta, rep, objective)
	r.UnderSelection = selected
	if selected {
		r.MSE = mse
	}
	return r
}

func TestUniformity(t *testing.T) {
	if got := Uniformity(3, 1); got != 0 {
		t.Fatalf("num_unique=1 should give 0, got %v", got)
	}
	if got := Uniformity(0, 0); got != 0 {
		t.Fatalf("num_unique=0 should give 0, got %v", got)
	}
	if got := Uniformity(2, 4); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
	if got := Uniformity(1.5, 8); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}

func TestSpread(t *testing.T) {
	if got := Spread(200, 200); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
	if got := Spread(50, 200); got != 0.25 {
		t.Fatalf("expected 0.25, got %v", got)
	}
	if got := Spread(3, 0); !math.IsNaN(got) {
		t.Fatalf("expected NaN for empty population, got %v", got)
	}
}

func TestMeasureValue(t *testing.T) {
	r := entropyRow("2_0_1_10", "0", "0", "connectance", false, 0)
	r.NumUnique = 4
	r.Entropy = 2
	if MeasureNumUnique.Value(r) != 4 || MeasureUniformity.Value(r) != 1 || MeasureSpread.Value(r) != 0.02 {
		t.Fatalf("unexpected measures for %+v", r)
	}
	if _, ok := ParseMeasure("spread"); !ok {
		t.Fatal("expected spread to parse")
	}
	if _, ok := ParseMeasure("variance"); ok {
		t.Fatal("expected unknown measure to be rejected")
	}
}

func TestPerfectReplicates(t *testing.T) {
	rows := []model.EntropyRow{
		entropyRow("a", "0", "0", "connectance", true, 0),
		entropyRow("a", "0", "0", "avg pos", true, 0),
		entropyRow("a", "0", "0", "avg neg", false, 0),
		entropyRow("a", "0", "1", "connectance", true, 0),
		entropyRow("a", "0", "1", "avg pos", true, 0.1),
		entropyRow("b", "0", "0", "connectance", false, 0),
		entropyRow("b", "0", "0", "avg pos", false, 0),
	}
	perfect := PerfectReplicates(rows)
	want := map[ReplicateKey]bool{
		{Experiment: "a", Rep: "0"}: true,
		{Experiment: "a", Rep: "1"}: false,
		{Experiment: "b", Rep: "0"}: true,
	}
	if !reflect.DeepEqual(perfect, want) {
		t.Fatalf("unexpected classification: %+v", perfect)
	}

	kept := FilterPerfect(rows)
	if len(kept) != 5 {
		t.Fatalf("expected 5 rows from perfect replicates, got %d", len(kept))
	}
	for _, r := range kept {
		if r.ExperimentName == "a" && r.Rep == "1" {
			t.Fatalf("imperfect replicate leaked: %+v", r)
		}
	}
}

func TestPartitionDegreeDistributionMovesWholeExperiments(t *testing.T) {
	rows := []model.FitnessRow{
		fitnessRow("2_0_1_10", "0", "connectance", 0.1),
		fitnessRow("2_0_1_10", "0", "in-dd", 0.2),
		fitnessRow("2_0_1_10", "1", "connectance", 0.3),
		fitnessRow("2_0_2_10", "0", "avg pos", 0.4),
		fitnessRow("2_0_2_10", "0", "out-dd", 0.5),
		fitnessRow("2_0_3_10", "0", "avg pos", 0.6),
		fitnessRow("2_0_3_10", "0", "connectance", 0.7),
	}
	with, without := PartitionDegreeDistribution(rows)
	if len(with) != 5 || len(without) != 2 {
		t.Fatalf("unexpected partition sizes with=%d without=%d", len(with), len(without))
	}
	for _, r := range without {
		if r.ExperimentName != "2_0_3_10" {
			t.Fatalf("unexpected row in no-dd partition: %+v", r)
		}
	}
	if got := DegreeDistributionRows(rows); len(got) != 2 {
		t.Fatalf("expected 2 dd rows, got %d", len(got))
	}
}

func TestGroupMeans(t *testing.T) {
	rows := []model.FitnessRow{
		fitnessRow("x", "0", "connectance", 0),
		fitnessRow("x", "1", "connectance", 2),
		fitnessRow("x", "0", "avg pos", 0),
		fitnessRow("x", "1", "avg pos", 0),
	}
	rows[1].NetworkSize = 100

	groups := GroupMeans(rows, FitnessFields, FitnessMSE, []Column{ColObjective}, IncludeZeros)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Label() != "avg pos" || groups[0].Mean != 0 {
		t.Fatalf("unexpected first group: %+v", groups[0])
	}
	if groups[1].Label() != "connectance" || groups[1].Mean != 1 {
		t.Fatalf("unexpected second group: %+v", groups[1])
	}

	excluded := GroupMeans(rows, FitnessFields, FitnessMSE, []Column{ColObjective}, ExcludeZeros)
	if !math.IsNaN(excluded[0].Mean) {
		t.Fatalf("all-zero group excluding zeros should be NaN, got %v", excluded[0].Mean)
	}
	if excluded[1].Mean != 2 {
		t.Fatalf("expected 2, got %v", excluded[1].Mean)
	}

	bySize := GroupMeans(rows, FitnessFields, FitnessMSE, []Column{ColNetworkSize}, IncludeZeros)
	if bySize[0].Key[0] != "10" || bySize[1].Key[0] != "100" {
		t.Fatalf("expected numeric key order, got %v %v", bySize[0].Key, bySize[1].Key)
	}
}

func TestMeans(t *testing.T) {
	if !math.IsNaN(Mean(nil)) {
		t.Fatal("mean of empty input should be NaN")
	}
	if got := Mean([]float64{1, 2, 3}); got != 2 {
		t.Fatalf("expected 2, got %v", got)
	}
	if got := MeanExcludingZeros([]float64{0, 2, 4, 0}); got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
	if !math.IsNaN(MeanExcludingZeros([]float64{0, 0})) {
		t.Fatal("all zeros should give NaN")
	}
}

func TestDistinctOrdersNumerically(t *testing.T) {
	rows := []model.FitnessRow{
		fitnessRow("x", "0", "a", 0),
		fitnessRow("x", "0", "a", 0),
		fitnessRow("x", "0", "a", 0),
	}
	rows[0].NetworkSize = 100
	rows[1].NetworkSize = 10
	rows[2].NetworkSize = 50
	got := Distinct(rows, FitnessFields, ColNetworkSize)
	if !reflect.DeepEqual(got, []string{"10", "50", "100"}) {
		t.Fatalf("unexpected distinct order: %v", got)
	}
	values := []string{"b", "2", "a", "10", "2"}
	SortDistinct(&values)
	if !reflect.DeepEqual(values, []string{"2", "10", "a", "b"}) {
		t.Fatalf("unexpected sorted distinct: %v", values)
	}
}

func TestSelectDiversity(t *testing.T) {
	rows := []model.EntropyRow{
		// perfect, topological only: probe kept
		entropyRow("2_0_1_10", "0", "0", "connectance", true, 0),
		entropyRow("2_0_1_10", "0", "0", "avg pos", false, 0),
		// perfect but selects an edge-weight property: excluded
		entropyRow("2_0_2_10", "0", "0", "avg neg", true, 0),
		entropyRow("2_0_2_10", "0", "0", "avg pos", false, 0),
		// imperfect
		entropyRow("2_0_3_10", "0", "0", "str comp", true, 1),
		entropyRow("2_0_3_10", "0", "0", "avg pos", false, 0),
		// other iteration path
		entropyRow("2_2_1_10", "2", "0", "avg neg", true, 0),
		entropyRow("2_2_1_10", "2", "0", "connectance", false, 0),
	}
	topo := SelectDiversity(rows, TopologicalDiversity)
	if len(topo) != 1 || topo[0].ExperimentName != "2_0_1_10" || topo[0].Objective != "avg pos" {
		t.Fatalf("unexpected topological selection: %+v", topo)
	}
	edge := SelectDiversity(rows, EdgeWeightDiversity)
	if len(edge) != 1 || edge[0].ExperimentName != "2_2_1_10" || edge[0].Objective != "connectance" {
		t.Fatalf("unexpected edge-weight selection: %+v", edge)
	}
	if _, ok := DiversityForSet(1); ok {
		t.Fatal("set 1 has no diversity preset")
	}
}
