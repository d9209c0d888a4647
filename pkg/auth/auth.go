package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Authenticator decides whether an identity/secret pair may use the dashboard.
type Authenticator interface {
	Verify(identity, secret string) bool
}

// None lets every request through. It is used when no credentials are configured.
type None struct{}

func (None) Verify(string, string) bool { return true }

// Static checks against a single identity and a bcrypt hash of its secret.
type Static struct {
	identity string
	hash     []byte
}

// NewStatic validates the bcrypt hash up front so a bad configuration fails at startup.
func NewStatic(identity, passwordHash string) (*Static, error) {
	if identity == "" {
		return nil, errors.New("auth: empty identity")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, errors.New("auth: password hash is not a bcrypt hash")
	}
	return &Static{identity: identity, hash: []byte(passwordHash)}, nil
}

func (s *Static) Verify(identity, secret string) bool {
	idOK := subtle.ConstantTimeCompare([]byte(identity), []byte(s.identity)) == 1
	// Always run bcrypt so a wrong identity costs the same as a wrong secret.
	secretOK := bcrypt.CompareHashAndPassword(s.hash, []byte(secret)) == nil
	return idOK && secretOK
}

// HashSecret returns a bcrypt hash suitable for the auth.password_hash setting.
func HashSecret(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FromConfig returns None when identity is empty, Static otherwise.
func FromConfig(identity, passwordHash string) (Authenticator, error) {
	if identity == "" && passwordHash == "" {
		return None{}, nil
	}
	return NewStatic(identity, passwordHash)
}
