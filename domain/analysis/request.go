package analysis

import (
	"fmt"
	"strings"

	"gothesis/domain/core"
)

// Request is the single normalized form of an analysis call
type Request struct {
	Kind      Kind     `json:"kind" yaml:"kind"`
	Variables []string `json:"variables" yaml:"variables"`
}

// NewRequest parses the kind and checks the variable list against the kind's contract.
// Nothing about the dataset is consulted here.
func NewRequest(kind string, variables []string) (Request, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return Request{}, err
	}
	vars := make([]string, len(variables))
	for i, v := range variables {
		vars[i] = strings.TrimSpace(v)
	}
	req := Request{Kind: k, Variables: vars}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Validate checks a request built by hand: a known kind, non-empty distinct variable
// names and the kind's arity. The role accessors below rely on it.
func (r Request) Validate() error {
	c, ok := byKind[r.Kind]
	if !ok {
		return fmt.Errorf("%w: %q", core.ErrUnknownKind, r.Kind)
	}
	seen := make(map[string]bool, len(r.Variables))
	for _, name := range r.Variables {
		if name == "" {
			return core.NewRequestError("variable names must not be empty")
		}
		if seen[name] {
			return core.NewRequestError(fmt.Sprintf("variable '%s' is listed more than once", name))
		}
		seen[name] = true
	}
	if !c.accepts(len(r.Variables)) {
		return core.NewRequestError(fmt.Sprintf("%s expects %s, got %d variable(s)", r.Kind, c.Roles, len(r.Variables)))
	}
	return nil
}

// GroupVar is the grouping variable of grouped kinds
func (r Request) GroupVar() string {
	return r.Variables[0]
}

// DependentVar is the last variable: the outcome of grouped and predictor kinds
func (r Request) DependentVar() string {
	return r.Variables[len(r.Variables)-1]
}

// Predictors are all variables but the last
func (r Request) Predictors() []string {
	return append([]string(nil), r.Variables[:len(r.Variables)-1]...)
}

// Pair returns the two variables of paired and crosstab kinds
func (r Request) Pair() (string, string) {
	return r.Variables[0], r.Variables[1]
}

// Items returns every variable of item-scale kinds
func (r Request) Items() []string {
	return append([]string(nil), r.Variables...)
}
