package analysis

import (
	"fmt"
	"strings"

	"gothesis/domain/core"
)

// Kind is the closed set of analyses the engine can run
type Kind string

const (
	KindDescriptive      Kind = "descriptive"
	KindNormality        Kind = "normality"
	KindIndependentTTest Kind = "independent-ttest"
	KindPairedTTest      Kind = "paired-ttest"
	KindOneWayANOVA      Kind = "oneway-anova"
	KindMannWhitney      Kind = "mann-whitney"
	KindKruskalWallis    Kind = "kruskal-wallis"
	KindWilcoxon         Kind = "wilcoxon"
	KindCorrelation      Kind = "correlation-analysis"
	KindLinearRegression Kind = "linear-regression"
	KindChiSquare        Kind = "chi-square"
	KindReliability      Kind = "reliability"
	KindValidity         Kind = "validity"
)

// Layout names how a kind interprets its ordered variable list
type Layout string

const (
	LayoutAny       Layout = "any"       // every variable analysed on its own
	LayoutGrouped   Layout = "grouped"   // [grouping variable, dependent variable]
	LayoutPaired    Layout = "paired"    // [first measurement, second measurement]
	LayoutPairwise  Layout = "pairwise"  // every pair of variables
	LayoutPredictor Layout = "predictor" // [independent..., dependent]
	LayoutCrossTab  Layout = "crosstab"  // [row variable, column variable]
	LayoutItems     Layout = "items"     // scale items
)

// Contract fixes the arity and role ordering for one kind
type Contract struct {
	Kind    Kind
	Title   string // display name used in tables and narratives
	Layout  Layout
	MinVars int
	MaxVars int // 0 means unbounded
	Roles   string
}

var contracts = []Contract{
	{KindDescriptive, "Descriptive Statistics", LayoutAny, 1, 0, "one or more variables"},
	{KindNormality, "Shapiro-Wilk Normality Test", LayoutAny, 1, 0, "one or more numeric variables"},
	{KindIndependentTTest, "Independent Samples T-Test", LayoutGrouped, 2, 2, "[grouping variable with 2 categories, numeric dependent variable]"},
	{KindPairedTTest, "Paired Samples T-Test", LayoutPaired, 2, 2, "[first numeric measurement, second numeric measurement]"},
	{KindOneWayANOVA, "One-Way ANOVA", LayoutGrouped, 2, 2, "[grouping variable, numeric dependent variable]"},
	{KindMannWhitney, "Mann-Whitney U Test", LayoutGrouped, 2, 2, "[grouping variable with 2 categories, numeric dependent variable]"},
	{KindKruskalWallis, "Kruskal-Wallis H Test", LayoutGrouped, 2, 2, "[grouping variable, numeric dependent variable]"},
	{KindWilcoxon, "Wilcoxon Signed-Rank Test", LayoutPaired, 2, 2, "[first numeric measurement, second numeric measurement]"},
	{KindCorrelation, "Pearson Correlation", LayoutPairwise, 2, 0, "two or more numeric variables"},
	{KindLinearRegression, "Linear Regression", LayoutPredictor, 2, 0, "[numeric independent variables..., numeric dependent variable]"},
	{KindChiSquare, "Chi-Square Test of Independence", LayoutCrossTab, 2, 2, "[categorical row variable, categorical column variable]"},
	{KindReliability, "Cronbach's Alpha Reliability", LayoutItems, 2, 0, "two or more numeric item variables"},
	{KindValidity, "Item Validity (Item-Total Correlation)", LayoutItems, 2, 0, "two or more numeric item variables"},
}

var byKind = func() map[Kind]Contract {
	m := make(map[Kind]Contract, len(contracts))
	for _, c := range contracts {
		m[c.Kind] = c
	}
	return m
}()

// ParseKind converts a boundary string into a Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := byKind[k]; !ok {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownKind, s)
	}
	return k, nil
}

// Kinds lists every supported kind in a stable order
func Kinds() []Kind {
	out := make([]Kind, len(contracts))
	for i, c := range contracts {
		out[i] = c.Kind
	}
	return out
}

// Contract returns the arity/role contract for the kind
func (k Kind) Contract() Contract {
	return byKind[k]
}

// Title returns the display name
func (k Kind) Title() string {
	return byKind[k].Title
}

func (k Kind) String() string { return string(k) }

// accepts checks a variable count against the contract
func (c Contract) accepts(n int) bool {
	if n < c.MinVars {
		return false
	}
	return c.MaxVars == 0 || n <= c.MaxVars
}
