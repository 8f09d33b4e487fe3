// internal/service/advisor/advisor.go
package advisor

import (
	"fmt"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"
)

// Question is one step of the contract advisor questionnaire.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
	Weight  int      `json:"weight"`
	// Scores maps an answer to the product type it counts for.
	Scores map[string]signup.ProductType `json:"-"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Recommendation struct {
	Type       signup.ProductType         `json:"type"`
	Label      string                     `json:"label"`
	Motivation string                     `json:"motivation"`
	Scores     map[signup.ProductType]int `json:"scores"`
}

var (
	stableFirst = map[string]signup.ProductType{"A": signup.ProductTypeFixed, "B": signup.ProductTypeVariable, "C": signup.ProductTypeQuarterly}
	flexFirst   = map[string]signup.ProductType{"A": signup.ProductTypeQuarterly, "B": signup.ProductTypeVariable, "C": signup.ProductTypeFixed}
)

var Questions = []Question{
	{ID: 1, Text: "Vilket passar dig bäst?", Weight: 1, Scores: stableFirst, Options: []Option{
		{"A", "Stabilt även om det ibland blir dyrare"},
		{"B", "Marknadspris över tid och accepterar variation"},
		{"C", "Aktiv påverkan genom att flytta förbrukning"},
	}},
	{ID: 2, Text: "Kan du flytta elförbrukning till billigare tider (natt/helg)?", Weight: 2, Scores: flexFirst, Options: []Option{
		{"A", "Ja, mycket"},
		{"B", "Lite grann"},
		{"C", "Nej, nästan inte alls"},
	}},
	{ID: 3, Text: "Har du elbil eller annan stor förbrukare som du kan styra i tid?", Weight: 2, Scores: flexFirst, Options: []Option{
		{"A", "Ja, och jag kan styra tiderna"},
		{"B", "Ja, men jag styr sällan"},
		{"C", "Nej"},
	}},
	{ID: 4, Text: "Hur vill du hantera pristoppar?", Weight: 1, Scores: stableFirst, Options: []Option{
		{"A", "Jag vill slippa tänka på det"},
		{"B", "Jag accepterar variation men vill inte optimera"},
		{"C", "Jag kan anpassa mig och flytta förbrukning"},
	}},
	{ID: 5, Text: "När används elen mest hemma?", Weight: 1, Scores: stableFirst, Options: []Option{
		{"A", "Mest dagtid"},
		{"B", "Jämnt över dygnet"},
		{"C", "Mest kväll eller natt"},
	}},
}

var labels = map[signup.ProductType]string{
	signup.ProductTypeFixed:     "Fastpris",
	signup.ProductTypeVariable:  "Rörligt",
	signup.ProductTypeQuarterly: "Kvartspris",
}

var motivations = map[signup.ProductType]string{
	signup.ProductTypeFixed:     "Du vill ha stabilitet och slippa påverkas av pristoppar.",
	signup.ProductTypeVariable:  "Du accepterar prisvariation men vill inte optimera timme för timme.",
	signup.ProductTypeQuarterly: "Du kan styra mer av din förbrukning till billigare timmar.",
}

// Recommend scores five answers (A, B or C). On a tie for the top score the
// quarterly product wins if it is tied and the customer can shift load
// (A on question 2 or 3), otherwise variable wins if tied, otherwise fixed.
func Recommend(answers []string) (Recommendation, error) {
	if len(answers) != len(Questions) {
		return Recommendation{}, fmt.Errorf("advisor needs %d answers, got %d: %w", len(Questions), len(answers), xerrors.ErrInvalidInput)
	}

	scores := map[signup.ProductType]int{
		signup.ProductTypeFixed:     0,
		signup.ProductTypeVariable:  0,
		signup.ProductTypeQuarterly: 0,
	}
	for i, q := range Questions {
		t, ok := q.Scores[answers[i]]
		if !ok {
			return Recommendation{}, fmt.Errorf("answer %d %q: %w", q.ID, answers[i], xerrors.ErrInvalidInput)
		}
		scores[t] += q.Weight
	}

	fixed, variable, quarterly := scores[signup.ProductTypeFixed], scores[signup.ProductTypeVariable], scores[signup.ProductTypeQuarterly]
	top := max(fixed, variable, quarterly)
	atTop := 0
	for _, s := range scores {
		if s == top {
			atTop++
		}
	}

	var pick signup.ProductType
	switch {
	case atTop > 1 && quarterly == top && (answers[1] == "A" || answers[2] == "A"):
		pick = signup.ProductTypeQuarterly
	case atTop > 1 && variable == top:
		pick = signup.ProductTypeVariable
	case atTop > 1:
		pick = signup.ProductTypeFixed
	case quarterly == top:
		pick = signup.ProductTypeQuarterly
	case variable == top:
		pick = signup.ProductTypeVariable
	default:
		pick = signup.ProductTypeFixed
	}

	return Recommendation{
		Type:       pick,
		Label:      labels[pick],
		Motivation: motivations[pick],
		Scores:     scores,
	}, nil
}
