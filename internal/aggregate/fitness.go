package aggregate

import (
	"context"
	"fmt"
	"io"

	"evoagg/internal/artifacts"
	"evoagg/internal/layout"
	"evoagg/internal/model"
	"evoagg/internal/objective"
)

type Options struct {
	// Log receives skip notices and progress lines. Nil discards them.
	Log io.Writer
}

func (o Options) log() io.Writer {
	if o.Log == nil {
		return io.Discard
	}
	return o.Log
}

// BuildFitnessTable emits one row per (replicate, objective in its fitness log)
// holding the objective's final fitness value.
func BuildFitnessTable(ctx context.Context, root string, opts Options) ([]model.FitnessRow, error) {
	experiments, err := layout.Scan(root, opts.log())
	if err != nil {
		return nil, err
	}

	rows := make([]model.FitnessRow, 0, 1024)
	for _, exp := range experiments {
		for _, rep := range exp.Replicates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			fitnessLog, err := artifacts.ReadFitnessLog(rep.Dir)
			if err != nil {
				return nil, fmt.Errorf("experiment %s rep %s: %w", exp.Meta.Name, rep.Name, err)
			}
			rows = append(rows, FitnessRows(exp.Meta, rep.Name, fitnessLog)...)
		}
	}
	return rows, nil
}

// FitnessRows converts one replicate's fitness log into table rows.
func FitnessRows(meta model.ExperimentMeta, rep string, fitnessLog artifacts.FitnessLog) []model.FitnessRow {
	rows := make([]model.FitnessRow, 0, fitnessLog.Len())
	for _, t := range fitnessLog.Trajectories {
		rows = append(rows, model.NewFitnessRow(meta, rep, objective.Normalize(t.Objective), t.Final()))
	}
	return rows
}
