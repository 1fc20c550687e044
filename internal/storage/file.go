package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"evoagg/internal/model"
)

const (
	FitnessSnapshotFile = "fitness.json"
	EntropySnapshotFile = "entropy.json"
	FitnessExportFile   = "fitness.csv"
	EntropyExportFile   = "entropy.csv"
)

var fitnessColumns = []string{
	"experiment_name", "num_obj", "iter_path", "combo", "rep", "network_size", "objective", "MSE",
}

var entropyColumns = []string{
	"experiment_name", "num_obj", "iter_path", "combo", "rep", "network_size", "objective",
	"under_selection", "mse", "entropy", "num_unique", "pop_size",
}

// FileStore keeps one JSON snapshot per table in a directory, next to a CSV
// export of the same rows. Files are replaced atomically.
type FileStore struct {
	dir string

	mu sync.RWMutex
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Init(_ context.Context) error {
	if s.dir == "" {
		return errors.New("snapshot dir is required")
	}
	return os.MkdirAll(s.dir, 0o755)
}

func (s *FileStore) SaveFitnessTable(ctx context.Context, table model.FitnessTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := EncodeFitnessTable(table)
	if err != nil {
		return err
	}
	records := make([][]string, 0, len(table.Rows)+1)
	records = append(records, fitnessColumns)
	for _, r := range table.Rows {
		records = append(records, []string{
			r.ExperimentName, r.NumObj, r.IterPath, r.Combo, r.Rep,
			strconv.Itoa(r.NetworkSize), r.Objective, model.FormatFloat(r.MSE),
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeCSVAtomic(filepath.Join(s.dir, FitnessExportFile), records); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.dir, FitnessSnapshotFile), append(payload, '\n'))
}

func (s *FileStore) GetFitnessTable(_ context.Context) (model.FitnessTable, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := filepath.Join(s.dir, FitnessSnapshotFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.FitnessTable{}, false, nil
		}
		return model.FitnessTable{}, false, err
	}
	table, err := DecodeFitnessTable(data)
	if err != nil {
		return model.FitnessTable{}, false, fmt.Errorf("decode %s: %w", path, err)
	}
	return table, true, nil
}

func (s *FileStore) SaveEntropyTable(ctx context.Context, table model.EntropyTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := EncodeEntropyTable(table)
	if err != nil {
		return err
	}
	records := make([][]string, 0, len(table.Rows)+1)
	records = append(records, entropyColumns)
	for _, r := range table.Rows {
		records = append(records, []string{
			r.ExperimentName, r.NumObj, r.IterPath, r.Combo, r.Rep,
			strconv.Itoa(r.NetworkSize), r.Objective, strconv.FormatBool(r.UnderSelection),
			model.FormatFloat(r.MSE), model.FormatFloat(r.Entropy),
			strconv.Itoa(r.NumUnique), strconv.Itoa(r.PopSize),
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeCSVAtomic(filepath.Join(s.dir, EntropyExportFile), records); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.dir, EntropySnapshotFile), append(payload, '\n'))
}

func (s *FileStore) GetEntropyTable(_ context.Context) (model.EntropyTable, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := filepath.Join(s.dir, EntropySnapshotFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.EntropyTable{}, false, nil
		}
		return model.EntropyTable{}, false, err
	}
	table, err := DecodeEntropyTable(data)
	if err != nil {
		return model.EntropyTable{}, false, fmt.Errorf("decode %s: %w", path, err)
	}
	return table, true, nil
}

func writeCSVAtomic(path string, records [][]string) error {
	return replaceFile(path, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.WriteAll(records); err != nil {
			return err
		}
		return w.Error()
	})
}

func writeFileAtomic(path string, data []byte) error {
	return replaceFile(path, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}

func replaceFile(path string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
