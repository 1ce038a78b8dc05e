package analysis

import (
	"encoding/json"
	"math"

	"gothesis/internal/sanitize"
)

// Alpha is the fixed significance level used for every decision and every narrative
const Alpha = 0.05

// Significant reports p <= Alpha. NaN is never significant.
func Significant(p float64) bool {
	return !math.IsNaN(p) && p <= Alpha
}

// ============================================================================
// TABLES
// ============================================================================

// Table is an ordered, SPSS-style result table
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// NewTable creates an empty table with the given header
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns, Rows: [][]any{}}
}

// AddRow appends one row; values are positional against Columns
func (t *Table) AddRow(values ...any) {
	t.Rows = append(t.Rows, values)
}

// Value returns the cell at row i under the named column
func (t *Table) Value(i int, column string) (any, bool) {
	if t == nil || i < 0 || i >= len(t.Rows) {
		return nil, false
	}
	for j, c := range t.Columns {
		if c == column && j < len(t.Rows[i]) {
			return t.Rows[i][j], true
		}
	}
	return nil, false
}

// Float is Value for numeric cells; non-numeric cells give NaN
func (t *Table) Float(i int, column string) float64 {
	v, ok := t.Value(i, column)
	if !ok {
		return math.NaN()
	}
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	}
	return math.NaN()
}

// ============================================================================
// ASSUMPTIONS
// ============================================================================

// AssumptionKind distinguishes the two diagnostics
type AssumptionKind string

const (
	AssumptionNormality   AssumptionKind = "normality"
	AssumptionHomogeneity AssumptionKind = "homogeneity"
)

// GroupResult is the diagnostic outcome for one group (or variable)
type GroupResult struct {
	Group     string  `json:"group"`
	N         int     `json:"n"`
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Passed    bool    `json:"passed"`
	Reason    string  `json:"reason,omitempty"` // set when the group could not be tested
	Note      string  `json:"note,omitempty"`   // caveat on a result that was computed
}

// AssumptionReport is created once per guarded analysis and never modified afterwards
type AssumptionReport struct {
	Kind    AssumptionKind `json:"kind"`
	Test    string         `json:"test"`
	Results []GroupResult  `json:"results"`
	Passed  bool           `json:"passed"`
}

// ============================================================================
// OUTCOMES
// ============================================================================

// EffectSize is a scale-free magnitude measure
type EffectSize struct {
	Kind      string  `json:"kind"`                // "cohen_d", "partial_eta_squared", "r", ...
	Value     float64 `json:"value"`               // NaN when undefined
	Magnitude string  `json:"magnitude,omitempty"` // ordinal label when the family defines one
}

// TestOutcome holds the primary inferential result
type TestOutcome struct {
	Variant       string     `json:"variant"`        // procedure that actually ran
	StatisticName string     `json:"statistic_name"` // "t", "F", "U", "H", "W", "r", "chi2", "alpha"
	Statistic     float64    `json:"statistic"`
	DF            *float64   `json:"df,omitempty"`
	DF2           *float64   `json:"df2,omitempty"`
	PValue        float64    `json:"p_value"` // NaN for kinds with no inferential test
	EffectSize    EffectSize `json:"effect_size"`
}

// Significant applies the fixed threshold to the outcome's p-value
func (o *TestOutcome) Significant() bool {
	return o != nil && Significant(o.PValue)
}

// Comparison is one pairwise post-hoc contrast
type Comparison struct {
	GroupA     string  `json:"group_a"`
	GroupB     string  `json:"group_b"`
	Difference float64 `json:"difference"`
	Statistic  float64 `json:"statistic"`
	PValue     float64 `json:"p_value"` // adjusted
}

// PostHocResult exists only when the omnibus test was significant
type PostHocResult struct {
	Procedure   string       `json:"procedure"`
	Comparisons []Comparison `json:"comparisons"`
}

// ============================================================================
// CHARTS
// ============================================================================

// ChartKind is the closed set of chart shapes
type ChartKind string

const (
	ChartHistogram         ChartKind = "histogram"
	ChartBoxplot           ChartKind = "boxplot"
	ChartScatterRegression ChartKind = "scatter_regression"
	ChartQQ                ChartKind = "qq_plot"
	ChartBar               ChartKind = "bar"
)

// ChartSpec is chart-ready geometry plus presentation hints
type ChartSpec struct {
	Key     string    `json:"key"`
	Kind    ChartKind `json:"kind"`
	Title   string    `json:"title"`
	Color   string    `json:"color"`
	XLabel  string    `json:"x_label,omitempty"`
	YLabel  string    `json:"y_label,omitempty"`
	Payload any       `json:"payload"`
}

// ============================================================================
// BUNDLE
// ============================================================================

// Bundle is everything one analysis returns
type Bundle struct {
	Kind        Kind               `json:"kind"`
	Variables   []string           `json:"variables"`
	SampleSize  int                `json:"sample_size"`
	Summary     *Table             `json:"summary_table"`
	Details     *Table             `json:"detail_table,omitempty"`
	Assumptions []AssumptionReport `json:"assumptions,omitempty"`
	Outcome     *TestOutcome       `json:"outcome,omitempty"`
	PostHoc     *PostHocResult     `json:"post_hoc,omitempty"`
	Charts      []ChartSpec        `json:"charts"`
	Narrative   string             `json:"narrative"`
	Warnings    []string           `json:"warnings"`
}

// Assumption returns the report of the given kind, if the analysis ran one
func (b *Bundle) Assumption(kind AssumptionKind) (AssumptionReport, bool) {
	for _, a := range b.Assumptions {
		if a.Kind == kind {
			return a, true
		}
	}
	return AssumptionReport{}, false
}

// Chart returns the first chart of the given kind
func (b *Bundle) Chart(kind ChartKind) (ChartSpec, bool) {
	for _, c := range b.Charts {
		if c.Kind == kind {
			return c, true
		}
	}
	return ChartSpec{}, false
}

// Transport renders the bundle as a JSON-compatible tree in which every float is
// rounded to 3 decimals or nil for NaN/Inf.
func (b *Bundle) Transport() any {
	type plain Bundle
	return sanitize.Tree((*plain)(b))
}

// MarshalJSON always goes through the sanitizer, so NaN never reaches the encoder
func (b *Bundle) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Transport())
}
