package repositories

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/checkmarble/caregiver-uploads/models"
)

const callerTokenIssuer = "caregiver-uploads"

// CallerJwtRepository validates the HS256 tokens issued to recipients and caregivers. The
// subject claim is the caller's user id.
type CallerJwtRepository struct {
	signingKey []byte
}

var ValidationAlgo = jwt.SigningMethodHS256

func (repo *CallerJwtRepository) EncodeCallerToken(callerId string, expirationTime time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   callerId,
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		Issuer:    callerTokenIssuer,
	}
	return jwt.NewWithClaims(ValidationAlgo, claims).SignedString(repo.signingKey)
}

func (repo *CallerJwtRepository) Validate(ctx context.Context, token string) (models.Credentials, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (any, error) {
		return repo.signingKey, nil
	}, jwt.WithValidMethods([]string{ValidationAlgo.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return models.Credentials{}, errors.Mark(
			errors.Wrap(err, "error parsing jwt token claims"), models.UnAuthorizedError)
	}
	if !parsed.Valid || claims.Subject == "" {
		return models.Credentials{}, errors.Wrap(models.UnAuthorizedError, "token has no subject")
	}
	return models.Credentials{CallerId: claims.Subject}, nil
}

func NewCallerJwtRepository(signingKey []byte) *CallerJwtRepository {
	return &CallerJwtRepository{signingKey: signingKey}
}
