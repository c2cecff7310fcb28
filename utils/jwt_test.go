package utils

import (
	"testing"
	"time"

	"servio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTripCarriesActor(t *testing.T) {
	SetJWTSecret("test-secret")

	in := models.Actor{ID: "prov-1", Role: models.RoleProvider, BusinessID: "biz-9"}
	token, err := GenerateToken(in, time.Minute)
	require.NoError(t, err)

	out, err := ActorFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestExpiredTokenRejected(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateToken(models.Actor{ID: "u1", Role: models.RoleCustomer}, -time.Minute)
	require.NoError(t, err)

	_, err = ActorFromToken(token)
	assert.Error(t, err)
}

func TestTokenSignedWithOtherSecretRejected(t *testing.T) {
	SetJWTSecret("one")
	token, err := GenerateToken(models.Actor{ID: "u1", Role: models.RoleAdmin}, time.Minute)
	require.NoError(t, err)

	SetJWTSecret("two")
	_, err = ActorFromToken(token)
	assert.Error(t, err)
}

func TestUnknownRoleRejected(t *testing.T) {
	SetJWTSecret("test-secret")
	token, err := GenerateToken(models.Actor{ID: "u1", Role: "superuser"}, time.Minute)
	require.NoError(t, err)

	_, err = ActorFromToken(token)
	assert.Error(t, err)
}
