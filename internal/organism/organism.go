package organism

import (
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Organism is an evolved interaction network stored as a weighted adjacency
// matrix. A non-zero entry at [i][j] is an edge from node i to node j.
type Organism struct {
	AdjacencyMatrix [][]float64 `json:"adjacency_matrix"`
}

func (o Organism) NumNodes() int {
	return len(o.AdjacencyMatrix)
}

func (o Organism) Validate() error {
	n := len(o.AdjacencyMatrix)
	for i, row := range o.AdjacencyMatrix {
		if len(row) != n {
			return fmt.Errorf("adjacency matrix row %d has %d columns, want %d", i, len(row), n)
		}
	}
	return nil
}

// Graph returns a gonum view of the organism. Self loops are dropped because
// they do not affect reachability.
func (o Organism) Graph() *simple.WeightedDirectedGraph {
	g := simple.NewWeightedDirectedGraph(0, 0)
	for i := range o.AdjacencyMatrix {
		g.AddNode(simple.Node(int64(i)))
	}
	for i, row := range o.AdjacencyMatrix {
		for j, w := range row {
			if w == 0 || i == j {
				continue
			}
			g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(int64(i)), simple.Node(int64(j)), w))
		}
	}
	return g
}

func (o Organism) connectance() float64 {
	n := o.NumNodes()
	if n == 0 {
		return 0
	}
	edges := 0
	for _, row := range o.AdjacencyMatrix {
		for _, w := range row {
			if w != 0 {
				edges++
			}
		}
	}
	return float64(edges) / float64(n*n)
}

func (o Organism) averageStrength(positive bool) float64 {
	sum := 0.0
	count := 0
	for _, row := range o.AdjacencyMatrix {
		for _, w := range row {
			if (positive && w > 0) || (!positive && w < 0) {
				sum += w
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func (o Organism) competitionPairs() float64 {
	pairs := 0
	for i, row := range o.AdjacencyMatrix {
		for j := i + 1; j < len(row); j++ {
			if row[j] < 0 && o.AdjacencyMatrix[j][i] < 0 {
				pairs++
			}
		}
	}
	return float64(pairs)
}

func (o Organism) positiveProportion() float64 {
	positive := 0
	total := 0
	for _, row := range o.AdjacencyMatrix {
		for _, w := range row {
			if w == 0 {
				continue
			}
			total++
			if w > 0 {
				positive++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(positive) / float64(total)
}

func (o Organism) strongComponents() float64 {
	return float64(len(topo.TarjanSCC(o.Graph())))
}

func (o Organism) selfLoopProportion() float64 {
	n := o.NumNodes()
	if n == 0 {
		return 0
	}
	loops := 0
	for i, row := range o.AdjacencyMatrix {
		if row[i] != 0 {
			loops++
		}
	}
	return float64(loops) / float64(n)
}

// degreeDistribution returns, for each degree 0..n, the proportion of nodes with that degree.
func (o Organism) degreeDistribution(in bool) []float64 {
	n := o.NumNodes()
	degrees := make([]int, n)
	for i, row := range o.AdjacencyMatrix {
		for j, w := range row {
			if w == 0 {
				continue
			}
			if in {
				degrees[j]++
			} else {
				degrees[i]++
			}
		}
	}
	dist := make([]float64, n+1)
	if n == 0 {
		return dist
	}
	for _, d := range degrees {
		dist[d]++
	}
	for d := range dist {
		dist[d] /= float64(n)
	}
	return dist
}
