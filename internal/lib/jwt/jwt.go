package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/14kear/online-polls/internal/entity"
)

const typeAccess = "access"

var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken signs an HS256 access token for the identity.
func NewAccessToken(identity entity.Identity, secret string, ttl time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)

	claims["uid"] = identity.UserID
	claims["email"] = identity.Email
	claims["role"] = string(identity.Role)
	claims["typ"] = typeAccess
	claims["exp"] = time.Now().Add(ttl).Unix()

	return token.SignedString([]byte(secret))
}

// ParseAccessToken verifies signature and expiry and returns the identity the
// token was issued for.
func ParseAccessToken(tokenString, secret string) (entity.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return entity.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.Identity{}, ErrInvalidToken
	}

	if typ, _ := claims["typ"].(string); typ != typeAccess {
		return entity.Identity{}, fmt.Errorf("%w: not an access token", ErrInvalidToken)
	}

	uid, ok := claims["uid"].(float64)
	if !ok || uid <= 0 {
		return entity.Identity{}, fmt.Errorf("%w: missing uid", ErrInvalidToken)
	}

	roleClaim, _ := claims["role"].(string)
	role, ok := entity.ParseRole(roleClaim)
	if !ok {
		return entity.Identity{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, roleClaim)
	}

	email, _ := claims["email"].(string)

	return entity.Identity{
		UserID: int64(uid),
		Email:  email,
		Role:   role,
	}, nil
}
