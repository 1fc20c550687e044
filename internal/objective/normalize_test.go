package objective

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"number_of_competiton_pairs":             "recip neg",
		"average_positive_interactions_strength": "avg pos",
		"average_negative_interactions_strength": "avg neg",
		"positive_interactions_proportion":       "pos prop",
		"in_degree_distribution":                 "in-dd",
		"out_degree_distribution":                "out-dd",
		"strong_components":                      "str comp",
		"proportion_of_self_loops":               "prop self",
		"connectance":                            "connectance",
		"number_of_competition_pairs":            "number_of_competition_pairs",
		"In_Degree_Distribution":                 "In_Degree_Distribution",
		"":                                       "",
	}

	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("normalize(%q)=%q want=%q", in, got, want)
		}
	}
}

func TestNormalizeIsIdempotentOnLabels(t *testing.T) {
	for _, name := range OfInterest {
		label := Normalize(name)
		if again := Normalize(label); again != label {
			t.Fatalf("normalize(normalize(%q))=%q want=%q", name, again, label)
		}
	}
}

func TestOfInterestLabelsAreDistinct(t *testing.T) {
	if len(OfInterest) != 9 {
		t.Fatalf("expected 9 properties of interest, got %d", len(OfInterest))
	}
	seen := map[string]bool{}
	for _, name := range OfInterest {
		label := Normalize(name)
		if seen[label] {
			t.Fatalf("duplicate label %q", label)
		}
		seen[label] = true
	}
	for _, group := range [][]string{Topological, EdgeWeight, DegreeDistribution} {
		for _, label := range group {
			if !seen[label] {
				t.Fatalf("group label %q is not produced by Normalize", label)
			}
		}
	}
}
