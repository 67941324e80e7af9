package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmarble/caregiver-uploads/models"
)

func TestCallerJwtRepository_roundtrip(t *testing.T) {
	repo := NewCallerJwtRepository([]byte("secret"))
	token, err := repo.EncodeCallerToken("recipient-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	creds, err := repo.Validate(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, "recipient-1", creds.CallerId)
}

func TestCallerJwtRepository_rejects(t *testing.T) {
	repo := NewCallerJwtRepository([]byte("secret"))

	expired, err := repo.EncodeCallerToken("recipient-1", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	otherKey, err := NewCallerJwtRepository([]byte("other")).EncodeCallerToken("recipient-1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "recipient-1"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":    expired,
		"other key":  otherKey,
		"no expiry":  noExpiry,
		"no subject": noSubject,
		"garbage":    "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Validate(context.Background(), token)
			assert.True(t, errors.Is(err, models.UnAuthorizedError))
		})
	}
}
