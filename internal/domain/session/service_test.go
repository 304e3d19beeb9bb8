package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/lawn-advisor/pkg/errors"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_IssueAndValidate(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret", Issuer: "lawn-advisor", TokenTTL: time.Hour}, newTestLogger())
	require.True(t, svc.Enabled())

	token, err := svc.IssueToken("user-42", "gardener@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "user-42", claims.UserID)
	require.Equal(t, "gardener@example.com", claims.Email)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestService_RejectsWrongSecret(t *testing.T) {
	issuer := NewService(Config{Secret: "one"}, newTestLogger())
	verifier := NewService(Config{Secret: "two"}, newTestLogger())

	token, err := issuer.IssueToken("user-1", "")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(context.Background(), token)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
}

func TestService_RejectsExpiredToken(t *testing.T) {
	svc := NewService(Config{Secret: "s", TokenTTL: time.Minute}, newTestLogger()).(*service)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := svc.IssueToken("user-1", "")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(context.Background(), token)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
}

func TestService_RejectsOtherSigningMethods(t *testing.T) {
	svc := NewService(Config{Secret: "s"}, newTestLogger())
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), unsigned)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
}

func TestService_EmptyTokenAndDisabledSigning(t *testing.T) {
	svc := NewService(Config{}, newTestLogger())
	require.False(t, svc.Enabled())

	_, err := svc.ValidateToken(context.Background(), "  ")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	_, err = svc.IssueToken("user-1", "")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInternal))
}
