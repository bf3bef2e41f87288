package auth

import "golang.org/x/crypto/bcrypt"

// SecretVerifier compares a stored hash with a presented secret.
type SecretVerifier interface {
	// Compare returns nil when secret matches hashed.
	Compare(hashed, secret string) error
}

// BcryptVerifier implements SecretVerifier using bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements SecretVerifier.
func (v *BcryptVerifier) Compare(hashed, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret))
}

// HashSecret returns a bcrypt hash of secret at the given cost.
func HashSecret(secret string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
