package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pujaripavansai28/LMS/core"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer(&core.Config{
		AppName:   "LMS Test",
		SecretKey: "test-secret",
		Server:    core.ServerConfig{JWTExpirationDelta: 8 * time.Hour},
	})
}

func TestTokenIssuer_roundTrip(t *testing.T) {
	ti := newTestIssuer()
	p := Principal{ID: 42, Email: "ada@test.io", Role: RoleInstructor}

	token, err := ti.Issue(p)
	require.NoError(t, err)

	got, err := ti.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestTokenIssuer_Parse(t *testing.T) {
	ti := newTestIssuer()
	p := Principal{ID: 7, Email: "s@test.io", Role: RoleStudent}
	valid, err := ti.Issue(p)
	require.NoError(t, err)

	expiredIssuer := newTestIssuer()
	expiredIssuer.now = func() time.Time { return time.Now().Add(-9 * time.Hour) }
	expired, err := expiredIssuer.Issue(p)
	require.NoError(t, err)

	otherKey := newTestIssuer()
	otherKey.key = []byte("another-secret")
	forged, err := otherKey.Issue(p)
	require.NoError(t, err)

	elevated, err := ti.Issue(Principal{ID: 7, Email: "s@test.io", Role: RoleAdmin})
	require.NoError(t, err)
	vParts, eParts := strings.Split(valid, "."), strings.Split(elevated, ".")
	tampered := strings.Join([]string{vParts[0], eParts[1], vParts[2]}, ".")

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "LMS Test", Subject: "7"},
		Role:             RoleAdmin,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		wantCode string
	}{
		{name: "empty", token: "", wantCode: core.AuthMissingToken},
		{name: "blank", token: "   ", wantCode: core.AuthMissingToken},
		{name: "malformed", token: "not.a.token", wantCode: core.AuthInvalidToken},
		{name: "expired", token: expired, wantCode: core.AuthInvalidToken},
		{name: "bad signature", token: forged, wantCode: core.AuthInvalidToken},
		{name: "alg none", token: noneAlg, wantCode: core.AuthInvalidToken},
		{name: "tampered", token: tampered, wantCode: core.AuthInvalidToken},
		{name: "valid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := tt.token
			if tt.name == "valid" {
				tok = valid
			}
			got, err := ti.Parse(tok)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, p, got)
				return
			}
			assert.Equal(t, tt.wantCode, core.AuthErrorCode(err))
		})
	}
}
