package model

// DefaultPopSize is the final population size every replicate is run with.
const DefaultPopSize = 200

// UnselectedMSE marks an entropy row whose property was not under selection.
const UnselectedMSE = -1.0

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// ExperimentMeta is the metadata encoded in an experiment directory name.
type ExperimentMeta struct {
	Name        string `json:"experiment_name"`
	NumObj      string `json:"num_obj"`
	IterPath    string `json:"iter_path"`
	Combo       string `json:"combo"`
	NetworkSize int    `json:"network_size"`
}

type FitnessRow struct {
	ExperimentName string  `json:"experiment_name"`
	NumObj         string  `json:"num_obj"`
	IterPath       string  `json:"iter_path"`
	Combo          string  `json:"combo"`
	Rep            string  `json:"rep"`
	NetworkSize    int     `json:"network_size"`
	Objective      string  `json:"objective"`
	MSE            float64 `json:"MSE"`
}

type EntropyRow struct {
	ExperimentName string  `json:"experiment_name"`
	NumObj         string  `json:"num_obj"`
	IterPath       string  `json:"iter_path"`
	Combo          string  `json:"combo"`
	Rep            string  `json:"rep"`
	NetworkSize    int     `json:"network_size"`
	Objective      string  `json:"objective"`
	UnderSelection bool    `json:"under_selection"`
	MSE            float64 `json:"mse"`
	Entropy        float64 `json:"entropy"`
	NumUnique      int     `json:"num_unique"`
	PopSize        int     `json:"pop_size"`
}

// NewFitnessRow stamps the experiment metadata onto a row for one replicate objective.
func NewFitnessRow(meta ExperimentMeta, rep, objective string, mse float64) FitnessRow {
	return FitnessRow{
		ExperimentName: meta.Name,
		NumObj:         meta.NumObj,
		IterPath:       meta.IterPath,
		Combo:          meta.Combo,
		Rep:            rep,
		NetworkSize:    meta.NetworkSize,
		Objective:      objective,
		MSE:            mse,
	}
}

func NewEntropyRow(meta ExperimentMeta, rep, objective string) EntropyRow {
	return EntropyRow{
		ExperimentName: meta.Name,
		NumObj:         meta.NumObj,
		IterPath:       meta.IterPath,
		Combo:          meta.Combo,
		Rep:            rep,
		NetworkSize:    meta.NetworkSize,
		Objective:      objective,
		MSE:            UnselectedMSE,
		PopSize:        DefaultPopSize,
	}
}

// SnapshotInfo describes one persisted aggregation pass.
type SnapshotInfo struct {
	VersionedRecord
	ID           string `json:"id"`
	Table        string `json:"table"`
	Source       string `json:"source"`
	CreatedAtUTC string `json:"created_at_utc"`
	Rows         int    `json:"rows"`
}

type FitnessTable struct {
	Info SnapshotInfo `json:"info"`
	Rows []FitnessRow `json:"rows"`
}

type EntropyTable struct {
	Info SnapshotInfo `json:"info"`
	Rows []EntropyRow `json:"rows"`
}

const (
	TableFitness = "fitness"
	TableEntropy = "entropy"
)
