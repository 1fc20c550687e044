package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"evoagg/internal/artifacts"
	"evoagg/internal/model"
	"evoagg/internal/objective"
	"evoagg/internal/organism"
)

func writeExperiments(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	experiments := []struct {
		name       string
		objectives []string
		finals     [][]float64
	}{
		{name: "2_0_0_10", objectives: []string{objective.Connectance, objective.InDegreeDistribution}, finals: [][]float64{{0, 0.5}, {0.25, 1}}},
		{name: "2_0_1_10", objectives: []string{objective.StrongComponents, objective.SelfLoopProportion}, finals: [][]float64{{0, 0}, {0.5, 2}}},
	}
	entries := make([]artifacts.EntropyEntry, 0, len(objective.OfInterest))
	for _, property := range objective.OfInterest {
		entries = append(entries, artifacts.EntropyEntry{Name: property, Bits: 0.5})
	}
	population := []organism.Organism{
		{AdjacencyMatrix: [][]float64{{0, 1}, {-1, 0}}},
		{AdjacencyMatrix: [][]float64{{1, 0}, {0, 0}}},
	}
	for _, exp := range experiments {
		expDir := filepath.Join(root, exp.name)
		cfg := artifacts.RunConfig{
			Name:        exp.name,
			Reps:        len(exp.finals),
			PopSize:     model.DefaultPopSize,
			NetworkSize: 2,
			EvalFuncs:   map[string]artifacts.ObjectiveSpec{},
		}
		for _, name := range exp.objectives {
			cfg.EvalFuncs[name] = artifacts.ObjectiveSpec{Target: []float64{0}}
		}
		if err := artifacts.WriteRunConfig(expDir, cfg); err != nil {
			t.Fatalf("write config: %v", err)
		}
		for rep, finals := range exp.finals {
			repDir := filepath.Join(expDir, strconv.Itoa(rep))
			trajectories := make([]artifacts.Trajectory, len(exp.objectives))
			for i, name := range exp.objectives {
				trajectories[i] = artifacts.Trajectory{Objective: name, Values: []float64{finals[i]}}
			}
			if err := artifacts.WriteFitnessLog(repDir, artifacts.NewFitnessLog(trajectories...)); err != nil {
				t.Fatalf("write fitness log: %v", err)
			}
			if err := artifacts.WriteEntropy(repDir, artifacts.EntropyMeasurements{Entries: entries}); err != nil {
				t.Fatalf("write entropy: %v", err)
			}
			if err := artifacts.WriteFinalPopulation(repDir, population); err != nil {
				t.Fatalf("write final population: %v", err)
			}
		}
	}
	return root
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "evoagg.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func smallStyleConfig(t *testing.T, store, dbPath, snapshotDir, outDir string) string {
	t.Helper()
	return writeConfig(t, "store: "+store+"\n"+
		"db_path: "+dbPath+"\n"+
		"snapshot_dir: "+snapshotDir+"\n"+
		"out_dir: "+outDir+"\n"+
		"style:\n  width_in: 2\n  height_in: 1.5\n  dpi: 40\n")
}

func TestRunWithoutCommandPrintsUsage(t *testing.T) {
	for _, args := range [][]string{nil, {"bogus"}, {"help"}} {
		var out bytes.Buffer
		if err := run(context.Background(), args, &out); err != nil {
			t.Fatalf("run %v: %v", args, err)
		}
		if !strings.Contains(out.String(), "usage: evoaggctl") {
			t.Fatalf("expected usage for %v, got %q", args, out.String())
		}
		for _, cmd := range []string{"save-entropy", "poster2", "unconstrained"} {
			if !strings.Contains(out.String(), cmd) {
				t.Fatalf("usage does not list %s:\n%s", cmd, out.String())
			}
		}
	}
}

func TestRunSaveRequiresRoot(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"save", "--store", "memory"}, &out)
	if err == nil || !strings.Contains(err.Error(), "requires an experiments root") {
		t.Fatalf("expected missing root error, got %v", err)
	}
}

func TestRunSaveRejectsExtraArguments(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"save", "--store", "memory", "a", "b"}, &out)
	if err == nil || !strings.Contains(err.Error(), "unexpected arguments") {
		t.Fatalf("expected extra argument error, got %v", err)
	}
}

func TestRunSaveAndReportFromSQLite(t *testing.T) {
	root := writeExperiments(t)
	base := t.TempDir()
	dbPath := filepath.Join(base, "evoagg.db")
	outDir := filepath.Join(base, "figures")
	cfg := smallStyleConfig(t, "sqlite", dbPath, filepath.Join(base, "unused"), outDir)
	ctx := context.Background()

	var out bytes.Buffer
	if err := run(ctx, []string{"save", root, "--config", cfg}, &out); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.Contains(out.String(), "saved table=fitness rows=8 store=sqlite") {
		t.Fatalf("unexpected save output: %q", out.String())
	}

	out.Reset()
	if err := run(ctx, []string{"save-entropy", "--config", cfg, "--root", root}, &out); err != nil {
		t.Fatalf("save entropy: %v", err)
	}
	want := "saved table=entropy rows=" + strconv.Itoa(2*2*len(objective.OfInterest)) + " store=sqlite"
	if !strings.Contains(out.String(), want) {
		t.Fatalf("unexpected save-entropy output: %q", out.String())
	}

	out.Reset()
	if err := run(ctx, []string{"final", "--config", cfg}, &out); err != nil {
		t.Fatalf("final: %v", err)
	}
	for _, name := range []string{"error_no_dd.png", "error_dd.png"} {
		if !strings.Contains(out.String(), "wrote figure="+filepath.Join(outDir, name)) {
			t.Fatalf("missing %s in output: %q", name, out.String())
		}
	}

	out.Reset()
	if err := run(ctx, []string{"entropy", "--config", cfg, "--set", "0"}, &out); err != nil {
		t.Fatalf("entropy: %v", err)
	}
	if !strings.Contains(out.String(), "overall_mean measure=spread") {
		t.Fatalf("missing diversity summary: %q", out.String())
	}
}

func TestRunFlagsOverrideConfigFile(t *testing.T) {
	root := writeExperiments(t)
	base := t.TempDir()
	snapshots := filepath.Join(base, "snapshots")
	cfg := smallStyleConfig(t, "sqlite", filepath.Join(base, "evoagg.db"), filepath.Join(base, "unused"), base)
	ctx := context.Background()

	var out bytes.Buffer
	args := []string{"save", "--config", cfg, "--store", "file", "--snapshot-dir", snapshots, root}
	if err := run(ctx, args, &out); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.Contains(out.String(), "store=file") {
		t.Fatalf("expected file store, got %q", out.String())
	}
	for _, name := range []string{"fitness.json", "fitness.csv"} {
		if _, err := os.Stat(filepath.Join(snapshots, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(base, "evoagg.db")); !os.IsNotExist(err) {
		t.Fatalf("sqlite database should not exist, stat err=%v", err)
	}

	out.Reset()
	args = []string{"dist", "--store", "file", "--snapshot-dir", snapshots, "--iter", "0", "--size", "10", "--num-obj", "2"}
	if err := run(ctx, args, &out); err != nil {
		t.Fatalf("dist: %v", err)
	}
	if !strings.Contains(out.String(), "dd_mean iter_path=0 network_size=10 num_obj=2 mse=0.75") {
		t.Fatalf("unexpected dist output: %q", out.String())
	}
}

func TestRunReportWithoutSnapshotFails(t *testing.T) {
	base := t.TempDir()
	var out bytes.Buffer
	args := []string{"mse", "--snapshot-dir", filepath.Join(base, "snapshots"), "--out", base}
	err := run(context.Background(), args, &out)
	if err == nil || !strings.Contains(err.Error(), "snapshot not found") {
		t.Fatalf("expected snapshot not found, got %v", err)
	}
}

func TestRunTargetsWritesFigure(t *testing.T) {
	base := t.TempDir()
	cfg := smallStyleConfig(t, "memory", "", "", base)
	var out bytes.Buffer
	if err := run(context.Background(), []string{"targets", "--config", cfg, "--size", "10"}, &out); err != nil {
		t.Fatalf("targets: %v", err)
	}
	if !strings.Contains(out.String(), "wrote figure="+filepath.Join(base, "target_distributions.png")) {
		t.Fatalf("unexpected targets output: %q", out.String())
	}
}

func TestRunHelpFlagIsNotAnError(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"targets", "-h"}, &out); err != nil {
		t.Fatalf("help flag: %v", err)
	}
}

func TestRunUnconstrainedRejectsNegativeSamples(t *testing.T) {
	base := t.TempDir()
	cfg := smallStyleConfig(t, "memory", "", "", base)
	var out bytes.Buffer
	err := run(context.Background(), []string{"unconstrained", "--config", cfg, "--samples", "-1"}, &out)
	if err == nil || !strings.Contains(err.Error(), "sample size must be positive") {
		t.Fatalf("expected sample size error, got %v", err)
	}
}
