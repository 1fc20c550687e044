package storage

import (
	"context"
	"errors"
	"sync"

	"evoagg/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	fitness     *model.FitnessTable
	entropy     *model.EntropyTable
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.fitness = nil
	s.entropy = nil
	return nil
}

func (s *MemoryStore) SaveFitnessTable(_ context.Context, table model.FitnessTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	copied := table
	copied.Rows = append([]model.FitnessRow(nil), table.Rows...)
	s.fitness = &copied
	return nil
}

func (s *MemoryStore) GetFitnessTable(_ context.Context) (model.FitnessTable, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.fitness == nil {
		return model.FitnessTable{}, false, nil
	}
	table := *s.fitness
	table.Rows = append([]model.FitnessRow(nil), s.fitness.Rows...)
	return table, true, nil
}

func (s *MemoryStore) SaveEntropyTable(_ context.Context, table model.EntropyTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	copied := table
	copied.Rows = append([]model.EntropyRow(nil), table.Rows...)
	s.entropy = &copied
	return nil
}

func (s *MemoryStore) GetEntropyTable(_ context.Context) (model.EntropyTable, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entropy == nil {
		return model.EntropyTable{}, false, nil
	}
	table := *s.entropy
	table.Rows = append([]model.EntropyRow(nil), s.entropy.Rows...)
	return table, true, nil
}
