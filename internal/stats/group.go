package stats

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/campoy/unique"
	"gonum.org/v1/gonum/stat"

	"evoagg/internal/model"
)

// Column names a categorical field rows can be grouped by.
type Column int

const (
	ColIterPath Column = iota
	ColNumObj
	ColCombo
	ColNetworkSize
	ColObjective
)

func (c Column) String() string {
	switch c {
	case ColIterPath:
		return "iter_path"
	case ColNumObj:
		return "num_obj"
	case ColCombo:
		return "combo"
	case ColNetworkSize:
		return "network_size"
	case ColObjective:
		return "objective"
	default:
		return fmt.Sprintf("column(%d)", int(c))
	}
}

// Fields is the categorical part shared by fitness and entropy rows.
type Fields struct {
	Experiment  string
	IterPath    string
	NumObj      string
	Combo       string
	NetworkSize int
	Objective   string
}

func (f Fields) Value(c Column) string {
	switch c {
	case ColIterPath:
		return f.IterPath
	case ColNumObj:
		return f.NumObj
	case ColCombo:
		return f.Combo
	case ColNetworkSize:
		return strconv.Itoa(f.NetworkSize)
	case ColObjective:
		return f.Objective
	default:
		return ""
	}
}

func FitnessFields(r model.FitnessRow) Fields {
	return Fields{
		Experiment:  r.ExperimentName,
		IterPath:    r.IterPath,
		NumObj:      r.NumObj,
		Combo:       r.Combo,
		NetworkSize: r.NetworkSize,
		Objective:   r.Objective,
	}
}

func EntropyFields(r model.EntropyRow) Fields {
	return Fields{
		Experiment:  r.ExperimentName,
		IterPath:    r.IterPath,
		NumObj:      r.NumObj,
		Combo:       r.Combo,
		NetworkSize: r.NetworkSize,
		Objective:   r.Objective,
	}
}

func FitnessMSE(r model.FitnessRow) float64 {
	return r.MSE
}

type MeanMode int

const (
	IncludeZeros MeanMode = iota
	ExcludeZeros
)

// Mean is the arithmetic mean. An empty input has mean NaN.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// MeanExcludingZeros averages the values that are not exactly zero. NaN when
// nothing remains.
func MeanExcludingZeros(values []float64) float64 {
	nonZero := make([]float64, 0, len(values))
	for _, v := range values {
		if v != 0 {
			nonZero = append(nonZero, v)
		}
	}
	return Mean(nonZero)
}

func meanFor(mode MeanMode, values []float64) float64 {
	if mode == ExcludeZeros {
		return MeanExcludingZeros(values)
	}
	return Mean(values)
}

type Group struct {
	Key    []string
	Values []float64
	Mean   float64
}

func (g Group) Label() string {
	return strings.Join(g.Key, "/")
}

// GroupMeans groups rows by the given columns and averages value within each
// group. Groups come back ordered by key with numeric keys compared as numbers.
func GroupMeans[R any](rows []R, fields func(R) Fields, value func(R) float64, keys []Column, mode MeanMode) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, row := range rows {
		f := fields(row)
		key := make([]string, len(keys))
		for i, c := range keys {
			key[i] = f.Value(c)
		}
		id := strings.Join(key, "\x00")
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Values = append(groups[i].Values, value(row))
	}
	for i := range groups {
		groups[i].Mean = meanFor(mode, groups[i].Values)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return compareKeys(groups[i].Key, groups[j].Key) < 0
	})
	return groups
}

// GroupMeanValues flattens the group means in group order.
func GroupMeanValues(groups []Group) []float64 {
	out := make([]float64, len(groups))
	for i, g := range groups {
		out[i] = g.Mean
	}
	return out
}

// Distinct returns the distinct values of a column in ascending order.
func Distinct[R any](rows []R, fields func(R) Fields, c Column) []string {
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, fields(row).Value(c))
	}
	SortDistinct(&values)
	return values
}

// SortDistinct sorts and deduplicates values in place, numbers first in
// numeric order.
func SortDistinct(values *[]string) {
	unique.Slice(values, func(i, j int) bool {
		return CompareValues((*values)[i], (*values)[j]) < 0
	})
}

func CompareValues(a, b string) int {
	x, errA := strconv.ParseFloat(a, 64)
	y, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

func compareKeys(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := CompareValues(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// Filter keeps the rows matching keep.
func Filter[R any](rows []R, keep func(R) bool) []R {
	out := make([]R, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}
