package artifacts

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"evoagg/internal/model"
	"evoagg/internal/organism"
)

const (
	FinalPopulationFile = "final_pop.json"
	FitnessLogFile      = "fitness_log.json"
	EntropyFile         = "entropy.csv"
	ConfigFile          = "config.json"

	entropyNameColumn = "Name"
	entropyBitsColumn = "Entropy(bits)"
)

// HasFinalPopulation reports whether the replicate finished writing its final population.
func HasFinalPopulation(repDir string) (bool, error) {
	_, err := os.Stat(filepath.Join(repDir, FinalPopulationFile))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func ReadFitnessLog(repDir string) (FitnessLog, error) {
	var log FitnessLog
	if err := readJSON(filepath.Join(repDir, FitnessLogFile), &log); err != nil {
		return FitnessLog{}, err
	}
	return log, nil
}

func WriteFitnessLog(repDir string, log FitnessLog) error {
	if err := os.MkdirAll(repDir, 0o755); err != nil {
		return err
	}
	return writeJSON(filepath.Join(repDir, FitnessLogFile), log)
}

func ReadFinalPopulation(repDir string) ([]organism.Organism, error) {
	path := filepath.Join(repDir, FinalPopulationFile)
	var population []organism.Organism
	if err := readJSON(path, &population); err != nil {
		return nil, err
	}
	for i, org := range population {
		if err := org.Validate(); err != nil {
			return nil, fmt.Errorf("%s organism %d: %w", path, i, err)
		}
	}
	return population, nil
}

func WriteFinalPopulation(repDir string, population []organism.Organism) error {
	if err := os.MkdirAll(repDir, 0o755); err != nil {
		return err
	}
	return writeJSON(filepath.Join(repDir, FinalPopulationFile), population)
}

func ReadRunConfig(expDir string) (RunConfig, error) {
	var cfg RunConfig
	if err := readJSON(filepath.Join(expDir, ConfigFile), &cfg); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

func WriteRunConfig(expDir string, cfg RunConfig) error {
	if err := os.MkdirAll(expDir, 0o755); err != nil {
		return err
	}
	return writeJSON(filepath.Join(expDir, ConfigFile), cfg)
}

type EntropyEntry struct {
	Name string
	Bits float64
}

// EntropyMeasurements is one replicate's entropy.csv.
type EntropyMeasurements struct {
	Entries []EntropyEntry
}

// Lookup returns the entropy of the first entry with an exactly matching name.
func (m EntropyMeasurements) Lookup(name string) (float64, bool) {
	for _, e := range m.Entries {
		if e.Name == name {
			return e.Bits, true
		}
	}
	return 0, false
}

func ReadEntropy(repDir string) (EntropyMeasurements, error) {
	path := filepath.Join(repDir, EntropyFile)
	file, err := os.Open(path)
	if err != nil {
		return EntropyMeasurements{}, err
	}
	defer file.Close()

	m, err := ParseEntropyCSV(file)
	if err != nil {
		return EntropyMeasurements{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseEntropyCSV reads a table with at least Name and Entropy(bits) columns.
// A leading unnamed index column, as written by pandas, is tolerated.
func ParseEntropyCSV(in io.Reader) (EntropyMeasurements, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return EntropyMeasurements{}, fmt.Errorf("entropy table is empty")
	}
	if err != nil {
		return EntropyMeasurements{}, fmt.Errorf("read entropy header: %w", err)
	}
	nameIdx, bitsIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case entropyNameColumn:
			nameIdx = i
		case entropyBitsColumn:
			bitsIdx = i
		}
	}
	if nameIdx < 0 || bitsIdx < 0 {
		return EntropyMeasurements{}, fmt.Errorf("entropy header must contain %q and %q, got %v", entropyNameColumn, entropyBitsColumn, header)
	}

	m := EntropyMeasurements{Entries: make([]EntropyEntry, 0, 16)}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return EntropyMeasurements{}, fmt.Errorf("read entropy row %d: %w", line, err)
		}
		if nameIdx >= len(record) || bitsIdx >= len(record) {
			return EntropyMeasurements{}, fmt.Errorf("entropy row %d has %d columns", line, len(record))
		}
		bits, err := model.ParseFloat(strings.TrimSpace(record[bitsIdx]))
		if err != nil {
			return EntropyMeasurements{}, fmt.Errorf("entropy row %d: %w", line, err)
		}
		m.Entries = append(m.Entries, EntropyEntry{Name: strings.TrimSpace(record[nameIdx]), Bits: bits})
	}
	return m, nil
}

func WriteEntropy(repDir string, m EntropyMeasurements) error {
	if err := os.MkdirAll(repDir, 0o755); err != nil {
		return err
	}
	file, err := os.Create(filepath.Join(repDir, EntropyFile))
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{entropyNameColumn, entropyBitsColumn}); err != nil {
		return err
	}
	for _, e := range m.Entries {
		if err := writer.Write([]string{e.Name, model.FormatFloat(e.Bits)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func readJSON(path string, value any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
