package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned when the admin credential is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotConfigured is returned when no admin password is set, which
	// makes the admin name unclaimable.
	ErrNotConfigured = errors.New("admin access not configured")
)

// Service verifies the credential required to claim the reserved admin
// display name. The admin password is checked server-side; a successful
// login yields a short-lived session token so the password does not have to
// travel with every reconnect.
type Service struct {
	adminName    string
	passwordHash string
	jwtConfig    *JWTConfig
}

// NewService creates the admin credential service. An empty password
// disables admin access entirely.
func NewService(adminName, adminPassword string, jwtConfig *JWTConfig) (*Service, error) {
	s := &Service{adminName: adminName, jwtConfig: jwtConfig}
	if adminPassword != "" {
		hash, err := HashPassword(adminPassword)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		s.passwordHash = hash
	}
	return s, nil
}

// AdminName returns the reserved admin display name.
func (s *Service) AdminName() string {
	return s.adminName
}

// Login validates the admin password and returns a session token.
func (s *Service) Login(password string) (string, error) {
	if s.passwordHash == "" {
		return "", ErrNotConfigured
	}
	if err := ComparePassword(s.passwordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := GenerateToken(s.jwtConfig, s.adminName)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

// Verify accepts either the admin password or a valid session token.
// It implements the hub's AdminGate.
func (s *Service) Verify(password, token string) error {
	if s.passwordHash == "" {
		return ErrNotConfigured
	}

	if password != "" {
		if err := ComparePassword(s.passwordHash, password); err == nil {
			return nil
		}
	}

	if token != "" {
		claims, err := ValidateToken(s.jwtConfig, token)
		if err == nil && claims.Username == s.adminName {
			return nil
		}
	}

	return ErrInvalidCredentials
}
