package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFusionError_Format(t *testing.T) {
	err := New(ErrCodeInvalidInput, "similarity out of range", nil)
	assert.Equal(t, "[ERR_101_INVALID_INPUT] similarity out of range", err.Error())
	assert.Equal(t, CategoryInput, err.Category)
}

func TestFusionError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodeInternal, cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CategoryInternal, err.Category)
}

func TestFusionError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", InvalidInput("bad match", nil))

	assert.True(t, stderrors.Is(err, New(ErrCodeInvalidInput, "", nil)))
	assert.False(t, stderrors.Is(err, New(ErrCodeInternal, "", nil)))
}

func TestWrap_NilCause(t *testing.T) {
	require.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestWithDetail(t *testing.T) {
	err := InvalidInput("bad match", nil).WithDetail("index", "3")
	assert.Equal(t, "3", err.Details["index"])
}

func TestCategories(t *testing.T) {
	assert.Equal(t, CategoryConfig, ConfigError("bad", nil).Category)
	assert.Equal(t, CategoryCollaborator, DirectoryError("down", nil).Category)
	assert.Equal(t, CategoryInput, InvalidInput("bad", nil).Category)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidInput, CodeOf(InvalidInput("bad", nil)))
	assert.Equal(t, "", CodeOf(stderrors.New("plain")))
}
