package aggregate

import (
	"context"
	"errors"
	"fmt"

	"evoagg/internal/artifacts"
	"evoagg/internal/layout"
	"evoagg/internal/model"
	"evoagg/internal/objective"
	"evoagg/internal/organism"
)

var ErrMissingEntropyRow = errors.New("missing entropy row")

// BuildEntropyTable emits one row per (replicate, property of interest)
// describing selection status, final error, entropy and realized diversity.
func BuildEntropyTable(ctx context.Context, root string, opts Options) ([]model.EntropyRow, error) {
	experiments, err := layout.Scan(root, opts.log())
	if err != nil {
		return nil, err
	}

	rows := make([]model.EntropyRow, 0, 1024)
	for _, exp := range experiments {
		cfg, err := artifacts.ReadRunConfig(exp.Dir)
		if err != nil {
			return nil, fmt.Errorf("experiment %s: %w", exp.Meta.Name, err)
		}
		eval := organism.NewEvaluation(cfg.EvalConfig())

		for _, rep := range exp.Replicates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			repRows, err := entropyRowsForReplicate(exp.Meta, rep, eval)
			if err != nil {
				return nil, err
			}
			rows = append(rows, repRows...)
		}
	}
	return rows, nil
}

func entropyRowsForReplicate(meta model.ExperimentMeta, rep layout.Replicate, eval *organism.Evaluation) ([]model.EntropyRow, error) {
	entropy, err := artifacts.ReadEntropy(rep.Dir)
	if err != nil {
		return nil, fmt.Errorf("experiment %s rep %s: %w", meta.Name, rep.Name, err)
	}
	population, err := artifacts.ReadFinalPopulation(rep.Dir)
	if err != nil {
		return nil, fmt.Errorf("experiment %s rep %s: %w", meta.Name, rep.Name, err)
	}
	fitnessLog, err := artifacts.ReadFitnessLog(rep.Dir)
	if err != nil {
		return nil, fmt.Errorf("experiment %s rep %s: %w", meta.Name, rep.Name, err)
	}
	return EntropyRows(meta, rep.Name, eval, population, entropy, fitnessLog)
}

// EntropyRows evaluates every property of interest on the final population of
// one replicate. It fails if the entropy table has no entry for a property.
func EntropyRows(
	meta model.ExperimentMeta,
	rep string,
	eval *organism.Evaluation,
	population []organism.Organism,
	entropy artifacts.EntropyMeasurements,
	fitnessLog artifacts.FitnessLog,
) ([]model.EntropyRow, error) {
	rows := make([]model.EntropyRow, 0, len(objective.OfInterest))
	for _, property := range objective.OfInterest {
		values, err := eval.Evaluate(property, population)
		if err != nil {
			return nil, err
		}
		bits, ok := entropy.Lookup(property)
		if !ok {
			return nil, fmt.Errorf("%w: experiment=%s rep=%s property=%s", ErrMissingEntropyRow, meta.Name, rep, property)
		}

		row := model.NewEntropyRow(meta, rep, objective.Normalize(property))
		row.Entropy = bits
		row.NumUnique = organism.CountDistinct(values)
		if final, ok := fitnessLog.Final(property); ok {
			row.UnderSelection = true
			row.MSE = final
		}
		rows = append(rows, row)
	}
	return rows, nil
}
