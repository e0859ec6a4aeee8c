package clipboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabled_Write(t *testing.T) {
	var w Writer = Disabled{}
	require.ErrorIs(t, w.Write("123456"), ErrUnsupported)
}

func TestSystem_ImplementsWriter(t *testing.T) {
	var _ Writer = NewSystem()
}
