package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testJWTConfig() *JWTConfig {
	return &JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "openroom",
		Audience: "openroom-admin",
		TTL:      time.Hour,
	}
}

func TestServiceLogin(t *testing.T) {
	req := require.New(t)

	s, err := NewService("admin", "hunter2", testJWTConfig())
	req.NoError(err)

	_, err = s.Login("wrong")
	req.ErrorIs(err, ErrInvalidCredentials)

	token, err := s.Login("hunter2")
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := ValidateToken(testJWTConfig(), token)
	req.NoError(err)
	req.Equal("admin", claims.Username)
}

func TestServiceNotConfigured(t *testing.T) {
	req := require.New(t)

	s, err := NewService("admin", "", testJWTConfig())
	req.NoError(err)

	_, err = s.Login("anything")
	req.ErrorIs(err, ErrNotConfigured)
	req.ErrorIs(s.Verify("anything", ""), ErrNotConfigured)
}

func TestServiceVerify(t *testing.T) {
	req := require.New(t)

	s, err := NewService("admin", "hunter2", testJWTConfig())
	req.NoError(err)

	req.NoError(s.Verify("hunter2", ""))
	req.ErrorIs(s.Verify("wrong", ""), ErrInvalidCredentials)
	req.ErrorIs(s.Verify("", ""), ErrInvalidCredentials)

	token, err := s.Login("hunter2")
	req.NoError(err)
	req.NoError(s.Verify("", token))
	req.ErrorIs(s.Verify("", "not-a-token"), ErrInvalidCredentials)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken(testJWTConfig(), "admin")
	req.NoError(err)

	other := testJWTConfig()
	other.Secret = []byte("different-secret")
	_, err = ValidateToken(other, token)
	req.Error(err)
}

func TestValidateTokenRejectsWrongIssuer(t *testing.T) {
	req := require.New(t)

	cfg := testJWTConfig()
	cfg.Issuer = "someone-else"
	token, err := GenerateToken(cfg, "admin")
	req.NoError(err)

	_, err = ValidateToken(testJWTConfig(), token)
	req.Error(err)
}
