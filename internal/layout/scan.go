package layout

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"evoagg/internal/artifacts"
	"evoagg/internal/model"
)

type Replicate struct {
	Name string
	Dir  string
}

type Experiment struct {
	Meta       model.ExperimentMeta
	Dir        string
	Replicates []Replicate
}

// Scan walks root/<experiment>/<replicate> and returns every experiment with
// at least one completed replicate. Replicates are visited in index order and
// the first one without a final population ends the scan of that experiment;
// a skip notice is written to log. Directory names are decoded only for
// experiments that have a completed replicate.
func Scan(root string, log io.Writer) ([]Experiment, error) {
	if log == nil {
		log = io.Discard
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	experiments := make([]Experiment, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		expDir := filepath.Join(root, entry.Name())
		replicates, err := scanReplicates(expDir, entry.Name(), log)
		if err != nil {
			return nil, err
		}
		if len(replicates) == 0 {
			continue
		}
		meta, err := DecodeName(entry.Name())
		if err != nil {
			return nil, err
		}
		experiments = append(experiments, Experiment{
			Meta:       meta,
			Dir:        expDir,
			Replicates: replicates,
		})
	}
	return experiments, nil
}

func scanReplicates(expDir, expName string, log io.Writer) ([]Replicate, error) {
	entries, err := os.ReadDir(expDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return replicateLess(names[i], names[j])
	})

	replicates := make([]Replicate, 0, len(names))
	for _, name := range names {
		repDir := filepath.Join(expDir, name)
		ok, err := artifacts.HasFinalPopulation(repDir)
		if err != nil {
			return nil, err
		}
		if !ok {
			fmt.Fprintf(log, "skipped experiment=%s rep=%s\n", expName, name)
			break
		}
		replicates = append(replicates, Replicate{Name: name, Dir: repDir})
	}
	return replicates, nil
}

// replicateLess orders numeric replicate names by index, ahead of any other
// names, which sort lexically.
func replicateLess(a, b string) bool {
	x, errA := strconv.Atoi(a)
	y, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		if x != y {
			return x < y
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
