package objective

// Canonical property names as written by the evolution runs.
const (
	Connectance           = "connectance"
	AvgPositiveStrength   = "average_positive_interactions_strength"
	AvgNegativeStrength   = "average_negative_interactions_strength"
	CompetitionPairs      = "number_of_competiton_pairs"
	PositiveProportion    = "positive_interactions_proportion"
	StrongComponents      = "strong_components"
	SelfLoopProportion    = "proportion_of_self_loops"
	InDegreeDistribution  = "in_degree_distribution"
	OutDegreeDistribution = "out_degree_distribution"
)

// Short display labels shared by both aggregate tables.
const (
	LabelConnectance = "connectance"
	LabelAvgPos      = "avg pos"
	LabelAvgNeg      = "avg neg"
	LabelRecipNeg    = "recip neg"
	LabelPosProp     = "pos prop"
	LabelStrComp     = "str comp"
	LabelPropSelf    = "prop self"
	LabelInDD        = "in-dd"
	LabelOutDD       = "out-dd"
)

// OfInterest is the fixed set of properties evaluated on every final population.
var OfInterest = []string{
	Connectance,
	AvgPositiveStrength,
	AvgNegativeStrength,
	CompetitionPairs,
	PositiveProportion,
	StrongComponents,
	SelfLoopProportion,
	InDegreeDistribution,
	OutDegreeDistribution,
}

var (
	Topological        = []string{LabelStrComp, LabelPropSelf, LabelConnectance}
	EdgeWeight         = []string{LabelRecipNeg, LabelAvgPos, LabelAvgNeg, LabelPosProp}
	DegreeDistribution = []string{LabelInDD, LabelOutDD}
)

// IsDistribution reports whether the property evaluates to a vector.
func IsDistribution(name string) bool {
	return name == InDegreeDistribution || name == OutDegreeDistribution
}

// IsDegreeDistributionLabel reports whether a short label names a degree distribution.
func IsDegreeDistributionLabel(label string) bool {
	return label == LabelInDD || label == LabelOutDD
}

func Contains(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
