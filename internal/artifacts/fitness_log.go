package artifacts

import (
	"bytes"
	"encoding/json"
	"fmt"

	"evoagg/internal/model"
)

// Trajectory is the per-generation fitness record of one objective.
type Trajectory struct {
	Objective string
	Values    []float64
}

// Final is the last recorded fitness value.
func (t Trajectory) Final() float64 {
	return t.Values[len(t.Values)-1]
}

// FitnessLog maps objective names to their trajectories, keeping the order in
// which the run recorded them.
type FitnessLog struct {
	Trajectories []Trajectory
}

func NewFitnessLog(trajectories ...Trajectory) FitnessLog {
	return FitnessLog{Trajectories: trajectories}
}

func (l FitnessLog) Len() int {
	return len(l.Trajectories)
}

// Final returns the last value of the first trajectory recorded for objective.
func (l FitnessLog) Final(objective string) (float64, bool) {
	for _, t := range l.Trajectories {
		if t.Objective == objective {
			return t.Final(), true
		}
	}
	return 0, false
}

func (l FitnessLog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range l.Trajectories {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t.Objective)
		if err != nil {
			return nil, err
		}
		values := make([]model.Float, len(t.Values))
		for j, v := range t.Values {
			values[j] = model.Float(v)
		}
		encoded, err := json.Marshal(values)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (l *FitnessLog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fitness log must be a JSON object")
	}

	trajectories := make([]Trajectory, 0, 8)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("fitness log key must be a string")
		}
		var values []model.Float
		if err := dec.Decode(&values); err != nil {
			return fmt.Errorf("decode trajectory %s: %w", name, err)
		}
		if len(values) == 0 {
			return fmt.Errorf("trajectory %s is empty", name)
		}
		t := Trajectory{Objective: name, Values: make([]float64, len(values))}
		for i, v := range values {
			t.Values[i] = float64(v)
		}
		trajectories = append(trajectories, t)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	l.Trajectories = trajectories
	return nil
}
