package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestTokenUtil_GenerateToken(t *testing.T) {
	tokenUtil := NewTokenUtil("secret", 1)

	tokenString, err := tokenUtil.GenerateToken(42, models.RoleVillager)

	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := tokenUtil.ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, models.RoleVillager, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenUtil_ValidateToken_RoundTrip(t *testing.T) {
	tokenUtil := NewTokenUtil("secret", 1)

	tokenString, _ := tokenUtil.GenerateToken(7, models.RoleAdmin)

	claims, err := tokenUtil.ValidateToken(tokenString)

	assert.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenUtil_ValidateToken_InvalidToken(t *testing.T) {
	tokenUtil := NewTokenUtil("secret", 1)

	_, err := tokenUtil.ValidateToken("invalid.token.string")
	assert.Error(t, err)
}

func TestTokenUtil_ValidateToken_ExpiredToken(t *testing.T) {
	tokenUtil := NewTokenUtil("secret", -1) // already expired when issued

	tokenString, _ := tokenUtil.GenerateToken(1, models.RoleVillager)

	_, err := tokenUtil.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenUtil_ValidateToken_WrongSecret(t *testing.T) {
	issuer := NewTokenUtil("secret1", 1)
	verifier := NewTokenUtil("secret2", 1)

	tokenString, _ := issuer.GenerateToken(1, models.RoleVillager)

	_, err := verifier.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestTokenUtil_ValidateToken_InvalidSigningMethod(t *testing.T) {
	tokenUtil := NewTokenUtil("secret", 1)

	claims := &TokenClaims{
		UserID: 1,
		Role:   models.RoleVillager,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = tokenUtil.ValidateToken(tokenString)
	assert.Error(t, err)
}
