package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestFloatJSONCarriesNonFiniteValues(t *testing.T) {
	in := []Float{Float(math.NaN()), Float(math.Inf(1)), Float(math.Inf(-1)), 0.25}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["NaN","Infinity","-Infinity",0.25]` {
		t.Fatalf("unexpected json: %s", data)
	}

	var out []Float
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !math.IsNaN(float64(out[0])) || !math.IsInf(float64(out[1]), 1) || !math.IsInf(float64(out[2]), -1) || out[3] != 0.25 {
		t.Fatalf("unexpected values: %v", out)
	}
}

func TestParseFloatRejectsGarbage(t *testing.T) {
	if _, err := ParseFloat("zero"); err == nil {
		t.Fatal("expected parse error")
	}
	v, err := ParseFloat(FormatFloat(1e-10))
	if err != nil || v != 1e-10 {
		t.Fatalf("round trip failed: %v %v", v, err)
	}
}
