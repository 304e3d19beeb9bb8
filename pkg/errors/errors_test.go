package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("signature mismatch")
	err := Wrap(CodeInvalidToken, "token validation failed", cause)

	require.EqualError(t, err, "token validation failed: signature mismatch")
	require.ErrorIs(t, err, cause)
	require.True(t, IsCode(err, CodeInvalidToken))
}

func TestCodeOfWrappedChain(t *testing.T) {
	err := fmt.Errorf("middleware: %w", Wrap(CodeInvalidToken, "bad", nil))
	require.Equal(t, CodeInvalidToken, CodeOf(err))
	require.Equal(t, "", CodeOf(errors.New("plain")))
	require.False(t, IsCode(nil, CodeInternal))
}
