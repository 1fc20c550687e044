package artifacts

import (
	"encoding/json"
	"fmt"

	"evoagg/internal/model"
	"evoagg/internal/organism"
)

// ObjectiveSpec is one eval_funcs entry. Targets are scalars for most
// properties and vectors for degree distributions.
type ObjectiveSpec struct {
	Target []float64
}

func (s ObjectiveSpec) MarshalJSON() ([]byte, error) {
	if len(s.Target) == 1 {
		return json.Marshal(map[string]model.Float{"target": model.Float(s.Target[0])})
	}
	target := make([]model.Float, len(s.Target))
	for i, v := range s.Target {
		target[i] = model.Float(v)
	}
	return json.Marshal(map[string][]model.Float{"target": target})
}

func (s *ObjectiveSpec) UnmarshalJSON(data []byte) error {
	var raw struct {
		Target json.RawMessage `json:"target"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Target) == 0 {
		s.Target = nil
		return nil
	}
	var scalar model.Float
	if err := json.Unmarshal(raw.Target, &scalar); err == nil {
		s.Target = []float64{float64(scalar)}
		return nil
	}
	var vector []model.Float
	if err := json.Unmarshal(raw.Target, &vector); err != nil {
		return fmt.Errorf("target must be a number or a list of numbers: %w", err)
	}
	s.Target = make([]float64, len(vector))
	for i, v := range vector {
		s.Target[i] = float64(v)
	}
	return nil
}

// RunConfig is the config.json written for every experiment.
type RunConfig struct {
	DataDir        string                   `json:"data_dir,omitempty"`
	Name           string                   `json:"name"`
	Reps           int                      `json:"reps"`
	SaveData       int                      `json:"save_data"`
	PlotData       int                      `json:"plot_data"`
	Scheme         string                   `json:"scheme"`
	PopSize        int                      `json:"popsize"`
	MutationRate   float64                  `json:"mutation_rate"`
	MutationOdds   []float64                `json:"mutation_odds,omitempty"`
	CrossoverOdds  []float64                `json:"crossover_odds,omitempty"`
	CrossoverRate  float64                  `json:"crossover_rate"`
	WeightRange    []float64                `json:"weight_range,omitempty"`
	NetworkSize    int                      `json:"network_size"`
	NumGenerations int                      `json:"num_generations"`
	EvalFuncs      map[string]ObjectiveSpec `json:"eval_funcs"`
}

func (c RunConfig) EvalConfig() organism.EvalConfig {
	return organism.EvalConfig{NetworkSize: c.NetworkSize}
}
