package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gothesis/domain/core"
)

func TestNewRequest_TrimsAndChecksContract(t *testing.T) {
	req, err := NewRequest(" ONEWAY-ANOVA ", []string{" class", "score "})
	require.NoError(t, err)
	assert.Equal(t, KindOneWayANOVA, req.Kind)
	assert.Equal(t, []string{"class", "score"}, req.Variables)
	assert.Equal(t, "class", req.GroupVar())
	assert.Equal(t, "score", req.DependentVar())

	_, err = NewRequest("independent-ttest", []string{"a", "b", "c"})
	assert.ErrorIs(t, err, core.ErrInvalidRequest)
	_, err = NewRequest("descriptive", []string{"a", " a"})
	assert.ErrorContains(t, err, "listed more than once")
	_, err = NewRequest("anova", []string{"a", "b"})
	assert.ErrorIs(t, err, core.ErrUnknownKind)
}

func TestValidate_HandBuiltRequests(t *testing.T) {
	assert.NoError(t, Request{Kind: KindLinearRegression, Variables: []string{"x1", "x2", "y"}}.Validate())
	assert.ErrorIs(t, Request{Kind: KindCorrelation, Variables: []string{"x"}}.Validate(), core.ErrInvalidRequest)
	assert.ErrorIs(t, Request{Kind: KindChiSquare}.Validate(), core.ErrInvalidRequest)
	assert.ErrorIs(t, Request{Kind: "", Variables: []string{"x"}}.Validate(), core.ErrUnknownKind)
}
