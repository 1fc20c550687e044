package objective

// Normalize maps a canonical objective name to its short display label.
// Names outside the known vocabulary are returned unchanged.
func Normalize(name string) string {
	if label, ok := shortLabel(name); ok {
		return label
	}
	return name
}

func shortLabel(name string) (string, bool) {
	switch name {
	case CompetitionPairs:
		return LabelRecipNeg, true
	case AvgPositiveStrength:
		return LabelAvgPos, true
	case AvgNegativeStrength:
		return LabelAvgNeg, true
	case PositiveProportion:
		return LabelPosProp, true
	case InDegreeDistribution:
		return LabelInDD, true
	case OutDegreeDistribution:
		return LabelOutDD, true
	case StrongComponents:
		return LabelStrComp, true
	case SelfLoopProportion:
		return LabelPropSelf, true
	default:
		return "", false
	}
}
