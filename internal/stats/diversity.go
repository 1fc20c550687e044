package stats

import (
	"math"

	"evoagg/internal/model"
	"evoagg/internal/objective"
)

// Uniformity is entropy normalised by log2 of the number of distinct values.
// A property realised with at most one value has uniformity 0.
func Uniformity(entropy float64, numUnique int) float64 {
	if numUnique <= 1 {
		return 0
	}
	return entropy / math.Log2(float64(numUnique))
}

func Spread(numUnique, popSize int) float64 {
	if popSize <= 0 {
		return math.NaN()
	}
	return float64(numUnique) / float64(popSize)
}

type Measure string

const (
	MeasureNumUnique  Measure = "num_unique"
	MeasureUniformity Measure = "uniformity"
	MeasureSpread     Measure = "spread"
)

var Measures = []Measure{MeasureNumUnique, MeasureUniformity, MeasureSpread}

func ParseMeasure(s string) (Measure, bool) {
	for _, m := range Measures {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Value computes the measure for one entropy row.
func (m Measure) Value(r model.EntropyRow) float64 {
	switch m {
	case MeasureNumUnique:
		return float64(r.NumUnique)
	case MeasureUniformity:
		return Uniformity(r.Entropy, r.NumUnique)
	case MeasureSpread:
		return Spread(r.NumUnique, r.PopSize)
	default:
		return math.NaN()
	}
}

type ReplicateKey struct {
	Experiment string
	Rep        string
}

func EntropyKey(r model.EntropyRow) ReplicateKey {
	return ReplicateKey{Experiment: r.ExperimentName, Rep: r.Rep}
}

// PerfectReplicates classifies every replicate in rows. A replicate is perfect
// when each of its selected rows has zero error, which includes replicates
// with nothing under selection.
func PerfectReplicates(rows []model.EntropyRow) map[ReplicateKey]bool {
	selected := make(map[ReplicateKey]int)
	solved := make(map[ReplicateKey]int)
	for _, r := range rows {
		key := EntropyKey(r)
		if _, ok := selected[key]; !ok {
			selected[key] = 0
		}
		if r.UnderSelection {
			selected[key]++
			if r.MSE == 0 {
				solved[key]++
			}
		}
	}
	perfect := make(map[ReplicateKey]bool, len(selected))
	for key, n := range selected {
		perfect[key] = solved[key] == n
	}
	return perfect
}

func FilterPerfect(rows []model.EntropyRow) []model.EntropyRow {
	perfect := PerfectReplicates(rows)
	return Filter(rows, func(r model.EntropyRow) bool {
		return perfect[EntropyKey(r)]
	})
}

// DiversitySelection picks the probe property rows of perfect replicates from
// experiments that put none of the excluded properties under selection.
type DiversitySelection struct {
	Label    string
	IterPath string
	Excluded []string
	Probe    string
}

var (
	TopologicalDiversity = DiversitySelection{
		Label:    "Topological",
		IterPath: "0",
		Excluded: objective.EdgeWeight,
		Probe:    objective.LabelAvgPos,
	}
	EdgeWeightDiversity = DiversitySelection{
		Label:    "Edge-Weight",
		IterPath: "2",
		Excluded: objective.Topological,
		Probe:    objective.LabelConnectance,
	}
)

// DiversityForSet maps a set index to its selection preset.
func DiversityForSet(set int) (DiversitySelection, bool) {
	switch set {
	case 0:
		return TopologicalDiversity, true
	case 2:
		return EdgeWeightDiversity, true
	default:
		return DiversitySelection{}, false
	}
}

func SelectDiversity(rows []model.EntropyRow, sel DiversitySelection) []model.EntropyRow {
	inPath := Filter(FilterPerfect(rows), func(r model.EntropyRow) bool {
		return r.IterPath == sel.IterPath
	})
	invalid := make(map[string]bool)
	for _, r := range inPath {
		if r.UnderSelection && objective.Contains(sel.Excluded, r.Objective) {
			invalid[r.ExperimentName] = true
		}
	}
	return Filter(inPath, func(r model.EntropyRow) bool {
		return !invalid[r.ExperimentName] && !r.UnderSelection && r.Objective == sel.Probe
	})
}
