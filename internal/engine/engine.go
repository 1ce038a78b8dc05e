// Package engine dispatches an analysis request to its test family. Each family checks
// the assumptions it needs, picks the variant those checks allow, and assembles a result
// bundle with tables, charts and a narrative.
package engine

import (
	"context"
	"fmt"

	"gothesis/domain/analysis"
	"gothesis/domain/core"
	"gothesis/domain/dataset"
	"gothesis/internal"
	"gothesis/internal/assumption"
	"gothesis/internal/charts"
	"gothesis/internal/config"
	apperrors "gothesis/internal/errors"
	"gothesis/internal/tabular"
)

// job carries one request through a family runner
type job struct {
	ds   *dataset.Dataset
	proj *tabular.Projection
	req  analysis.Request
	log  *internal.Logger
}

type runner func(e *Engine, j job) (*analysis.Bundle, error)

// Engine holds immutable configuration only; one instance may serve concurrent callers
type Engine struct {
	cfg     *config.Config
	charts  *charts.Builder
	log     *internal.Logger
	runners map[analysis.Kind]runner
}

// New creates an engine. A nil config uses the defaults and a nil logger the default logger.
func New(cfg *config.Config, logger *internal.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Engine{
		cfg:    cfg,
		charts: charts.NewBuilder(cfg.Charts),
		log:    logger.With("engine"),
		runners: map[analysis.Kind]runner{
			analysis.KindDescriptive:      (*Engine).descriptive,
			analysis.KindNormality:        (*Engine).normality,
			analysis.KindIndependentTTest: (*Engine).independentTTest,
			analysis.KindPairedTTest:      (*Engine).pairedTTest,
			analysis.KindOneWayANOVA:      (*Engine).oneWayANOVA,
			analysis.KindMannWhitney:      (*Engine).mannWhitney,
			analysis.KindKruskalWallis:    (*Engine).kruskalWallis,
			analysis.KindWilcoxon:         (*Engine).wilcoxon,
			analysis.KindCorrelation:      (*Engine).correlation,
			analysis.KindLinearRegression: (*Engine).linearRegression,
			analysis.KindChiSquare:        (*Engine).chiSquare,
			analysis.KindReliability:      (*Engine).reliability,
			analysis.KindValidity:         (*Engine).validity,
		},
	}
}

// WithLogger returns a copy of the engine that logs through l, e.g. tagged with a run ID
func (e *Engine) WithLogger(l *internal.Logger) *Engine {
	cp := *e
	cp.log = l
	return &cp
}

// Kinds lists the kinds this engine can run
func (e *Engine) Kinds() []analysis.Kind {
	var out []analysis.Kind
	for _, k := range analysis.Kinds() {
		if _, ok := e.runners[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Run executes one analysis. The context is consulted once, before any work; the dataset
// is never modified.
func (e *Engine) Run(ctx context.Context, ds *dataset.Dataset, req analysis.Request) (*analysis.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, core.NewRequestError("no dataset supplied")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	run, ok := e.runners[req.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownKind, req.Kind)
	}

	proj, err := tabular.Project(ds, req.Variables...)
	if err != nil {
		return nil, err
	}

	bundle, err := run(e, job{ds: ds, proj: proj, req: req, log: e.log})
	if err != nil {
		if core.IsRequestShapeError(err) || core.IsDataAdequacyError(err) {
			e.log.Warn("%s rejected: %v", req.Kind, err)
			return nil, err
		}
		e.log.Error("%s failed: %v", req.Kind, err)
		return nil, apperrors.Computation(err, "%s could not be computed", req.Kind)
	}

	bundle.Kind = req.Kind
	bundle.Variables = append([]string(nil), req.Variables...)
	bundle.Warnings = append(bundle.Warnings, assumption.Notes(bundle.Assumptions)...)
	if bundle.Charts == nil {
		bundle.Charts = []analysis.ChartSpec{}
	}
	if bundle.Warnings == nil {
		bundle.Warnings = []string{}
	}
	e.log.Info("%s on %v: n=%d, %d chart(s), %d warning(s)", req.Kind, req.Variables, bundle.SampleSize, len(bundle.Charts), len(bundle.Warnings))
	return bundle, nil
}

// RunNamed parses the boundary form of a request and runs it
func (e *Engine) RunNamed(ctx context.Context, ds *dataset.Dataset, kind string, variables []string) (*analysis.Bundle, error) {
	req, err := analysis.NewRequest(kind, variables)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, ds, req)
}

// numericColumns fetches every named column as numeric. All names are checked before any
// values are used, so the first non-numeric variable is reported.
func numericColumns(p *tabular.Projection, names []string) ([][]float64, error) {
	out := make([][]float64, len(names))
	for i, name := range names {
		values, err := p.Numeric(name)
		if err != nil {
			return nil, err
		}
		out[i] = values
	}
	return out, nil
}

func groupLabels(groups []tabular.Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Label
	}
	return out
}

func quoted(labels []string) string {
	out := ""
	for i, l := range labels {
		switch {
		case i == 0:
		case i == len(labels)-1:
			out += " and "
		default:
			out += ", "
		}
		out += "'" + l + "'"
	}
	return out
}

func ptr(v float64) *float64 { return &v }
