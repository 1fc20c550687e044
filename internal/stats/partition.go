package stats

import (
	"evoagg/internal/model"
	"evoagg/internal/objective"
)

// DegreeDistributionExperiments names the experiments that select at least
// one degree distribution.
func DegreeDistributionExperiments(rows []model.FitnessRow) map[string]bool {
	out := make(map[string]bool)
	for _, r := range rows {
		if objective.IsDegreeDistributionLabel(r.Objective) {
			out[r.ExperimentName] = true
		}
	}
	return out
}

// PartitionDegreeDistribution splits rows by experiment: every row of an
// experiment selecting a degree distribution goes to with, the rest to without.
func PartitionDegreeDistribution(rows []model.FitnessRow) (with, without []model.FitnessRow) {
	dd := DegreeDistributionExperiments(rows)
	for _, r := range rows {
		if dd[r.ExperimentName] {
			with = append(with, r)
		} else {
			without = append(without, r)
		}
	}
	return with, without
}

// DegreeDistributionRows keeps only the degree distribution objective rows.
func DegreeDistributionRows(rows []model.FitnessRow) []model.FitnessRow {
	return Filter(rows, func(r model.FitnessRow) bool {
		return objective.IsDegreeDistributionLabel(r.Objective)
	})
}

func FitnessValues(rows []model.FitnessRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.MSE
	}
	return out
}
