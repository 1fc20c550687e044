package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/plot/vg"

	"evoagg/internal/model"
	"evoagg/internal/plotting"
	"evoagg/internal/stats"
)

func testReporter(t *testing.T) (*Reporter, *bytes.Buffer) {
	t.Helper()
	style := plotting.DefaultStyle().WithSize(2*vg.Inch, 1.5*vg.Inch)
	style.DPI = 40
	var out bytes.Buffer
	return New(&out, t.TempDir(), style), &out
}

func fitnessFixture() []model.FitnessRow {
	var rows []model.FitnessRow
	objectives := map[string][]string{
		"0": {"connectance", "in-dd"},
		"1": {"avg pos", "prop self"},
	}
	for _, iter := range []string{"0", "2"} {
		for _, numObj := range []string{"2", "5"} {
			for _, combo := range []string{"0", "1"} {
				for _, size := range []int{10, 50} {
					meta := model.ExperimentMeta{
						Name:        fmt.Sprintf("%s_%s_%s_%d", numObj, iter, combo, size),
						NumObj:      numObj,
						IterPath:    iter,
						Combo:       combo,
						NetworkSize: size,
					}
					for rep := 0; rep < 3; rep++ {
						for i, objective := range objectives[combo] {
							mse := float64(rep*(i+1)*size) / 100
							rows = append(rows, model.NewFitnessRow(meta, fmt.Sprint(rep), objective, mse))
						}
					}
				}
			}
		}
	}
	return rows
}

func entropyFixture() []model.EntropyRow {
	var rows []model.EntropyRow
	add := func(name, iter string, size int, selected, probe string) {
		meta := model.ExperimentMeta{Name: name, NumObj: "1", IterPath: iter, Combo: "0", NetworkSize: size}
		for rep := 0; rep < 2; rep++ {
			s := model.NewEntropyRow(meta, fmt.Sprint(rep), selected)
			s.UnderSelection = true
			s.MSE = 0
			s.NumUnique = 1
			p := model.NewEntropyRow(meta, fmt.Sprint(rep), probe)
			p.NumUnique = 40 + rep*10
			p.Entropy = 4
			rows = append(rows, s, p)
		}
	}
	add("1_0_0_10", "0", 10, "connectance", "avg pos")
	add("1_0_0_50", "0", 50, "str comp", "avg pos")
	add("1_2_0_10", "2", 10, "avg neg", "connectance")
	return rows
}

func checkFiles(t *testing.T, paths ...string) {
	t.Helper()
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("expected %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Fatalf("empty figure %s", path)
		}
	}
}

func TestMSEWritesOneGridPerIterationAndObjectiveCount(t *testing.T) {
	r, out := testReporter(t)
	paths, err := r.MSE(fitnessFixture())
	if err != nil {
		t.Fatalf("mse: %v", err)
	}
	want := []string{"0_2.png", "0_5.png", "2_2.png", "2_5.png"}
	if len(paths) != len(want) {
		t.Fatalf("expected %d figures, got %v", len(want), paths)
	}
	for i, name := range want {
		if filepath.Base(paths[i]) != name {
			t.Fatalf("figure %d: got %s want %s", i, paths[i], name)
		}
	}
	checkFiles(t, paths...)
	if !strings.Contains(out.String(), "figure iter_path=0 num_obj=2") {
		t.Fatalf("missing progress line: %s", out.String())
	}
}

func TestFitnessFigures(t *testing.T) {
	r, _ := testReporter(t)
	rows := fitnessFixture()

	five, err := r.FiveObjectives(rows)
	if err != nil {
		t.Fatalf("five: %v", err)
	}
	set, err := r.SetPerformance(rows)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	final, err := r.Final(rows)
	if err != nil {
		t.Fatalf("final: %v", err)
	}
	poster, err := r.PosterError(rows)
	if err != nil {
		t.Fatalf("poster: %v", err)
	}
	checkFiles(t, append(final, five, set, poster)...)
	if filepath.Base(final[0]) != "error_no_dd.png" || filepath.Base(final[1]) != "error_dd.png" {
		t.Fatalf("unexpected final figures %v", final)
	}
}

func TestFiveObjectivesWithoutRows(t *testing.T) {
	r, _ := testReporter(t)
	rows := filterFitness(fitnessFixture(), stats.ColNumObj, "2")
	if _, err := r.FiveObjectives(rows); !errors.Is(err, plotting.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestDegreeDistributionSummary(t *testing.T) {
	r, out := testReporter(t)
	opts := DistOptions{IterPath: "0", NetworkSize: 50, NumObj: "2"}
	if err := r.DegreeDistribution(fitnessFixture(), opts); err != nil {
		t.Fatalf("dist: %v", err)
	}
	text := out.String()
	for _, want := range []string{"objective", "in-dd", "dd_mean iter_path=0 network_size=50 num_obj=2", "no_dd_mean iter_path=0", "with_dd_mean iter_path=0"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in output:\n%s", want, text)
		}
	}
	// in-dd errors at size 50 are 0, 1 and 2 across replicates
	if !strings.Contains(text, "mse=1\n") {
		t.Fatalf("unexpected dd mean:\n%s", text)
	}
}

func TestInteractions(t *testing.T) {
	r, out := testReporter(t)
	path, err := r.Interactions(fitnessFixture(), "2")
	if err != nil {
		t.Fatalf("interactions: %v", err)
	}
	checkFiles(t, path)
	text := out.String()
	for _, want := range []string{"network_size=10 num_obj=2", "nonzero_mean network_size=50", "partition=no_dd", "partition=with_dd"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in output:\n%s", want, text)
		}
	}
}

func TestEntropyReport(t *testing.T) {
	r, out := testReporter(t)
	if err := r.Entropy(entropyFixture(), 0); err != nil {
		t.Fatalf("entropy: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "selection=Topological") || !strings.Contains(text, "rows=4") {
		t.Fatalf("unexpected selection summary:\n%s", text)
	}
	// probe num_unique is 40 and 50 in every experiment
	if !strings.Contains(text, "overall_mean measure=num_unique value=45") {
		t.Fatalf("unexpected overall mean:\n%s", text)
	}
	if err := r.Entropy(entropyFixture(), 1); err == nil {
		t.Fatal("expected error for set without a preset")
	}
}

func TestPosterDiversity(t *testing.T) {
	r, _ := testReporter(t)
	path, err := r.PosterDiversity(entropyFixture(), stats.MeasureSpread)
	if err != nil {
		t.Fatalf("poster diversity: %v", err)
	}
	if filepath.Base(path) != "spread.png" {
		t.Fatalf("unexpected path %s", path)
	}
	checkFiles(t, path)
}

func TestReferenceFigures(t *testing.T) {
	r, _ := testReporter(t)
	target, err := r.TargetDistributions(50)
	if err != nil {
		t.Fatalf("targets: %v", err)
	}
	if _, err := r.TargetDistributions(0); err == nil {
		t.Fatal("expected error for empty network")
	}
	refs, err := r.Unconstrained(2000, 1)
	if err != nil {
		t.Fatalf("unconstrained: %v", err)
	}
	if len(refs) != 2 || filepath.Base(refs[0]) != "normal.png" || filepath.Base(refs[1]) != "uniform.png" {
		t.Fatalf("unexpected reference figures %v", refs)
	}
	checkFiles(t, append(refs, target)...)
}
