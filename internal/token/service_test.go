package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/hitoshi/storefront/internal/model"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	svc, err := NewService(Config{Secret: []byte("test-secret"), TTL: ttl, Issuer: "storefront"})
	require.NoError(t, err)
	return svc
}

func TestNewService_RequiresSecret(t *testing.T) {
	_, err := NewService(Config{})
	require.Error(t, err)
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour)

	tok, err := svc.Issue("0f8e3c52-7a4a-4a9b-9d0c-1b2c3d4e5f60")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := svc.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "0f8e3c52-7a4a-4a9b-9d0c-1b2c3d4e5f60", userID)
}

func TestIssue_EmptyUserID(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.Issue("")
	require.Error(t, err)
}

func TestVerify_WithoutTTL_NeverExpires(t *testing.T) {
	svc := newTestService(t, 0)
	tok, err := svc.Issue("user-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }

	userID, err := svc.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)
}

func TestVerify_Failures(t *testing.T) {
	svc := newTestService(t, time.Hour)

	other, err := NewService(Config{Secret: []byte("another-secret"), TTL: time.Hour, Issuer: "storefront"})
	require.NoError(t, err)
	foreign, err := other.Issue("user-1")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Issuer: "storefront"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{name: "empty", token: "", message: model.MsgTokenNotSupplied},
		{name: "garbage", token: "not-a-token", message: model.MsgTokenInvalid},
		{name: "wrong key", token: foreign, message: model.MsgTokenInvalid},
		{name: "alg none", token: noneToken, message: model.MsgTokenInvalid},
		{name: "no subject", token: noSubject, message: model.MsgTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			require.Error(t, err)
			require.True(t, model.IsKind(err, model.KindAuthentication))

			var apiErr *model.APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestService(t, time.Minute)
	tok, err := svc.Issue("user-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, err = svc.Verify(tok)
	require.True(t, model.IsKind(err, model.KindAuthentication))
}

func TestVerify_WrongIssuer(t *testing.T) {
	svc := newTestService(t, time.Hour)

	other, err := NewService(Config{Secret: []byte("test-secret"), TTL: time.Hour, Issuer: "someone-else"})
	require.NoError(t, err)
	tok, err := other.Issue("user-1")
	require.NoError(t, err)

	_, err = svc.Verify(tok)
	require.True(t, model.IsKind(err, model.KindAuthentication))
}
