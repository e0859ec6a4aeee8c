package goerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel")

func TestError_WrapsUnderlying(t *testing.T) {
	err := NewBusiness(fmt.Errorf("%w: %q", errSentinel, "alice"), "conflict", CodeConflict)

	require.ErrorIs(t, err, errSentinel)
	assert.Equal(t, `sentinel: "alice"`, err.Error())

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, TypeBusiness, gerr.Type())
	assert.Equal(t, CodeConflict, gerr.Code())
	assert.Equal(t, "conflict", gerr.Msg())
}

func TestError_FallbackMessage(t *testing.T) {
	assert.Equal(t, "not here", NewBusiness(nil, "not here", CodeNotFound).Error())
	assert.Equal(t, "validation violation", (&Error{errType: TypeValidation}).Error())
}

func TestNewInvalidInput_Fields(t *testing.T) {
	err := NewInvalidInput(nil, "name", "is required", "period", "must be positive")

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, map[string]string{"name": "is required", "period": "must be positive"}, gerr.Fields())
	assert.Equal(t, CodeInvalidInput, gerr.Code())

	err = NewInvalidInput(nil, "odd")
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, CodeInvalidFormat, gerr.Code())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "plain", err: errSentinel, want: 1},
		{name: "server", err: NewServer(errSentinel), want: 1},
		{name: "invalid input", err: NewInvalidInput(errSentinel), want: 2},
		{name: "invalid format", err: NewInvalidFormat(errSentinel), want: 2},
		{name: "not found", err: NewBusiness(errSentinel, "", CodeNotFound), want: 3},
		{name: "conflict", err: NewBusiness(errSentinel, "", CodeConflict), want: 4},
		{name: "corrupt", err: NewBusiness(errSentinel, "", CodeCorrupt), want: 5},
		{name: "timeout", err: NewTimeout(errSentinel), want: 6},
		{name: "wrapped", err: fmt.Errorf("outer: %w", NewBusiness(errSentinel, "", CodeNotFound)), want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
