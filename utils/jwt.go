package utils

import (
	"errors"
	"time"

	"servio/models"

	"github.com/golang-jwt/jwt"
)

var secretKey []byte

// SetJWTSecret installs the HMAC secret used to sign and verify tokens.
func SetJWTSecret(secret string) {
	secretKey = []byte(secret)
}

// GenerateToken creates a signed JWT carrying the actor's identity, role and business.
// The token expires after the specified duration.
func GenerateToken(actor models.Actor, duration time.Duration) (string, error) {
	if len(secretKey) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	claims := jwt.MapClaims{
		"sub":        actor.ID,
		"role":       actor.Role,
		"businessId": actor.BusinessID,
		"iat":        time.Now().Unix(),
		"exp":        time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	if len(secretKey) == 0 {
		return nil, errors.New("jwt secret not configured")
	}
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
}

// ActorFromToken extracts the actor from a valid JWT token string.
func ActorFromToken(tokenString string) (models.Actor, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return models.Actor{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Actor{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.Actor{}, errors.New("token does not contain a valid 'sub' claim")
	}
	role, _ := claims["role"].(string)
	switch role {
	case models.RoleCustomer, models.RoleProvider, models.RoleAdmin:
	default:
		return models.Actor{}, errors.New("token does not contain a valid 'role' claim")
	}
	businessID, _ := claims["businessId"].(string)

	return models.Actor{ID: sub, Role: role, BusinessID: businessID}, nil
}
