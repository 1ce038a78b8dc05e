package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsCodeAndChain(t *testing.T) {
	root := stderrors.New("matrix is singular")
	err := Computation(root, "regression on %s failed", "score")
	wrapped := Wrap(err, "analysis failed")

	assert.Equal(t, CodeComputationError, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, root))
	assert.Equal(t, "analysis failed: regression on score failed: matrix is singular", wrapped.Error())
}

func TestWrap_PlainErrorBecomesInternal(t *testing.T) {
	err := Wrapf(fmt.Errorf("boom"), "step %d", 2)
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, ConfigInvalid("bad"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "bad", err.Error())

	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("x")))
	assert.False(t, IsAppError(stderrors.New("x")))
	assert.True(t, IsAppError(fmt.Errorf("ctx: %w", InvalidInput("no dataset file given"))))
}
