package jwt

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/14kear/online-polls/internal/entity"
)

const secret = "test-secret"

func TestAccessToken_RoundTrip(t *testing.T) {
	identity := entity.Identity{UserID: 42, Email: gofakeit.Email(), Role: entity.RoleAdmin}

	token, err := NewAccessToken(identity, secret, time.Hour)
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "access", claims["typ"])
	assert.Equal(t, "admin", claims["role"])

	const deltaSeconds = 1
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), claims["exp"].(float64), deltaSeconds)

	got, err := ParseAccessToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	voter := entity.Identity{UserID: 7, Email: gofakeit.Email(), Role: entity.RoleVoter}

	expired, err := NewAccessToken(voter, secret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken(expired, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	valid, err := NewAccessToken(voter, secret, time.Hour)
	require.NoError(t, err)
	_, err = ParseAccessToken(valid, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	badRole, err := NewAccessToken(entity.Identity{UserID: 7, Role: "root"}, secret, time.Hour)
	require.NoError(t, err)
	_, err = ParseAccessToken(badRole, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  7,
		"role": "voter",
		"typ":  "refresh",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := refresh.SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseAccessToken(signed, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken("not-a-token", secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
