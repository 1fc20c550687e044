package storage

import (
	"context"

	"evoagg/internal/model"
)

// Store persists the aggregate table snapshots. Saving a table replaces the
// previous snapshot of that table as a whole.
type Store interface {
	Init(ctx context.Context) error
	SaveFitnessTable(ctx context.Context, table model.FitnessTable) error
	GetFitnessTable(ctx context.Context) (model.FitnessTable, bool, error)
	SaveEntropyTable(ctx context.Context, table model.EntropyTable) error
	GetEntropyTable(ctx context.Context) (model.EntropyTable, bool, error)
}
