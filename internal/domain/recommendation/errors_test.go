package recommendation

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/lawn-advisor/internal/infra/llm/anthropic"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, ErrorKind(""), KindOf(nil))
	require.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	require.Equal(t, KindNetwork, KindOf(fmt.Errorf("outer: %w", newError(KindNetwork, msgNetwork, nil))))
}

func TestClassifyPassesThroughClassifiedErrors(t *testing.T) {
	classified := newError(KindValidation, MsgInvalidLawnSize, nil)
	require.Same(t, classified, classify(classified))
	require.Nil(t, classify(nil))
}

func TestClassifyUnknownError(t *testing.T) {
	cause := errors.New("something odd")
	got := classify(cause)
	require.Equal(t, KindUnknown, got.Kind)
	require.Equal(t, "UnknownError", got.Type)
	require.ErrorIs(t, got, cause)
}

func TestUpstreamKindRateLimitRequiresType(t *testing.T) {
	require.Equal(t, KindRateLimit, upstreamKind(http.StatusTooManyRequests, "rate_limit_error"))
	require.Equal(t, KindRateLimit, upstreamKind(http.StatusOK, "rate_limit_error"))
	require.Equal(t, KindUnknown, upstreamKind(http.StatusTooManyRequests, "UnknownError"))
	require.Equal(t, KindUnknown, upstreamKind(http.StatusTooManyRequests, "overloaded_error"))
}

func TestUpstreamKindAuthFallsBackToStatus(t *testing.T) {
	require.Equal(t, KindAuth, upstreamKind(http.StatusForbidden, "UnknownError"))
	require.Equal(t, KindAuth, upstreamKind(http.StatusOK, "permission_error"))
	require.Equal(t, KindUnknown, upstreamKind(http.StatusInternalServerError, "api_error"))
}

func TestClassifyUpstreamDefaults(t *testing.T) {
	got := classify(&anthropic.APIError{StatusCode: 529, Type: "UnknownError", Message: "Unknown error occurred"})
	require.Equal(t, KindUnknown, got.Kind)
	require.Equal(t, "UnknownError", got.Type)
	require.Equal(t, "Unknown error occurred", got.Message)
}
