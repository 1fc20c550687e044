package storage

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"evoagg/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var (
	ErrVersionMismatch  = errors.New("record version mismatch")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// NewFitnessTable wraps freshly aggregated rows in a versioned snapshot envelope.
func NewFitnessTable(source string, rows []model.FitnessRow) model.FitnessTable {
	return model.FitnessTable{
		Info: newSnapshotInfo(model.TableFitness, source, len(rows)),
		Rows: rows,
	}
}

func NewEntropyTable(source string, rows []model.EntropyRow) model.EntropyTable {
	return model.EntropyTable{
		Info: newSnapshotInfo(model.TableEntropy, source, len(rows)),
		Rows: rows,
	}
}

func newSnapshotInfo(table, source string, rows int) model.SnapshotInfo {
	return model.SnapshotInfo{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		ID:              uuid.NewString(),
		Table:           table,
		Source:          source,
		CreatedAtUTC:    time.Now().UTC().Format(time.RFC3339Nano),
		Rows:            rows,
	}
}

type fitnessRowRecord struct {
	ExperimentName string      `json:"experiment_name"`
	NumObj         string      `json:"num_obj"`
	IterPath       string      `json:"iter_path"`
	Combo          string      `json:"combo"`
	Rep            string      `json:"rep"`
	NetworkSize    int         `json:"network_size"`
	Objective      string      `json:"objective"`
	MSE            model.Float `json:"MSE"`
}

type entropyRowRecord struct {
	ExperimentName string      `json:"experiment_name"`
	NumObj         string      `json:"num_obj"`
	IterPath       string      `json:"iter_path"`
	Combo          string      `json:"combo"`
	Rep            string      `json:"rep"`
	NetworkSize    int         `json:"network_size"`
	Objective      string      `json:"objective"`
	UnderSelection bool        `json:"under_selection"`
	MSE            model.Float `json:"mse"`
	Entropy        model.Float `json:"entropy"`
	NumUnique      int         `json:"num_unique"`
	PopSize        int         `json:"pop_size"`
}

type fitnessTableRecord struct {
	Info model.SnapshotInfo `json:"info"`
	Rows []fitnessRowRecord `json:"rows"`
}

type entropyTableRecord struct {
	Info model.SnapshotInfo `json:"info"`
	Rows []entropyRowRecord `json:"rows"`
}

func EncodeFitnessTable(t model.FitnessTable) ([]byte, error) {
	record := fitnessTableRecord{Info: t.Info, Rows: make([]fitnessRowRecord, len(t.Rows))}
	for i, r := range t.Rows {
		record.Rows[i] = fitnessRowRecord{
			ExperimentName: r.ExperimentName,
			NumObj:         r.NumObj,
			IterPath:       r.IterPath,
			Combo:          r.Combo,
			Rep:            r.Rep,
			NetworkSize:    r.NetworkSize,
			Objective:      r.Objective,
			MSE:            model.Float(r.MSE),
		}
	}
	return json.MarshalIndent(record, "", "  ")
}

func DecodeFitnessTable(data []byte) (model.FitnessTable, error) {
	var record fitnessTableRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.FitnessTable{}, err
	}
	if err := checkVersion(record.Info.VersionedRecord); err != nil {
		return model.FitnessTable{}, err
	}
	table := model.FitnessTable{Info: record.Info, Rows: make([]model.FitnessRow, len(record.Rows))}
	for i, r := range record.Rows {
		table.Rows[i] = model.FitnessRow{
			ExperimentName: r.ExperimentName,
			NumObj:         r.NumObj,
			IterPath:       r.IterPath,
			Combo:          r.Combo,
			Rep:            r.Rep,
			NetworkSize:    r.NetworkSize,
			Objective:      r.Objective,
			MSE:            float64(r.MSE),
		}
	}
	return table, nil
}

func EncodeEntropyTable(t model.EntropyTable) ([]byte, error) {
	record := entropyTableRecord{Info: t.Info, Rows: make([]entropyRowRecord, len(t.Rows))}
	for i, r := range t.Rows {
		record.Rows[i] = entropyRowRecord{
			ExperimentName: r.ExperimentName,
			NumObj:         r.NumObj,
			IterPath:       r.IterPath,
			Combo:          r.Combo,
			Rep:            r.Rep,
			NetworkSize:    r.NetworkSize,
			Objective:      r.Objective,
			UnderSelection: r.UnderSelection,
			MSE:            model.Float(r.MSE),
			Entropy:        model.Float(r.Entropy),
			NumUnique:      r.NumUnique,
			PopSize:        r.PopSize,
		}
	}
	return json.MarshalIndent(record, "", "  ")
}

func DecodeEntropyTable(data []byte) (model.EntropyTable, error) {
	var record entropyTableRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.EntropyTable{}, err
	}
	if err := checkVersion(record.Info.VersionedRecord); err != nil {
		return model.EntropyTable{}, err
	}
	table := model.EntropyTable{Info: record.Info, Rows: make([]model.EntropyRow, len(record.Rows))}
	for i, r := range record.Rows {
		table.Rows[i] = model.EntropyRow{
			ExperimentName: r.ExperimentName,
			NumObj:         r.NumObj,
			IterPath:       r.IterPath,
			Combo:          r.Combo,
			Rep:            r.Rep,
			NetworkSize:    r.NetworkSize,
			Objective:      r.Objective,
			UnderSelection: r.UnderSelection,
			MSE:            float64(r.MSE),
			Entropy:        float64(r.Entropy),
			NumUnique:      r.NumUnique,
			PopSize:        r.PopSize,
		}
	}
	return table, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
