package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", "ticktrack")
	actor := authorization.Actor{UserID: 5, Role: authorization.RoleContractor, TenantID: 2}

	token, err := svc.Sign(actor, time.Hour)
	require.NoError(t, err)

	got, err := svc.VerifyActor(token)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("secret", "ticktrack")
	actor := authorization.Actor{UserID: 5, Role: authorization.RoleEndUser, TenantID: 2}

	t.Run("expired", func(t *testing.T) {
		token, err := svc.Sign(actor, -time.Minute)
		require.NoError(t, err)
		_, err = svc.VerifyActor(token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTService("other", "ticktrack").Sign(actor, time.Hour)
		require.NoError(t, err)
		_, err = svc.VerifyActor(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := NewJWTService("secret", "someone-else").Sign(actor, time.Hour)
		require.NoError(t, err)
		_, err = svc.VerifyActor(token)
		assert.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		token, err := svc.Sign(authorization.Actor{UserID: 5, Role: "ROOT", TenantID: 2}, time.Hour)
		require.NoError(t, err)
		_, err = svc.VerifyActor(token)
		assert.Error(t, err)
	})

	t.Run("missing tenant", func(t *testing.T) {
		token, err := svc.Sign(authorization.Actor{UserID: 5, Role: authorization.RoleEndUser}, time.Hour)
		require.NoError(t, err)
		_, err = svc.VerifyActor(token)
		assert.Error(t, err)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := &Claims{UserID: 5, TenantID: 2, Role: authorization.RoleSuperAdmin}
		claims.Issuer = "ticktrack"
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.VerifyActor(token)
		assert.Error(t, err)
	})
}

func TestCronSecretVerifier(t *testing.T) {
	plain := NewCronSecretVerifier("s3cret")
	assert.NoError(t, plain.Verify("s3cret"))
	assert.Error(t, plain.Verify("wrong"))
	assert.Error(t, plain.Verify(""))

	hash, err := HashCronSecret("s3cret")
	require.NoError(t, err)
	hashed := NewCronSecretVerifier(hash)
	assert.NoError(t, hashed.Verify("s3cret"))
	assert.Error(t, hashed.Verify("s3cre"))

	disabled := NewCronSecretVerifier("")
	assert.False(t, disabled.Enabled())
	assert.Error(t, disabled.Verify("anything"))
}
