package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CronSecretVerifier checks the shared secret presented by the external
// scheduler. The configured value may be a bcrypt hash or the plain secret.
type CronSecretVerifier struct {
	configured string
	hashed     bool
}

func NewCronSecretVerifier(configured string) *CronSecretVerifier {
	configured = strings.TrimSpace(configured)
	return &CronSecretVerifier{
		configured: configured,
		hashed:     strings.HasPrefix(configured, "$2"),
	}
}

// Enabled reports whether a secret is configured at all. Without one the cron
// endpoint rejects every call.
func (v *CronSecretVerifier) Enabled() bool {
	return v.configured != ""
}

func (v *CronSecretVerifier) Verify(presented string) error {
	if !v.Enabled() || presented == "" {
		return fmt.Errorf("cron secret verification failed")
	}
	if v.hashed {
		if err := bcrypt.CompareHashAndPassword([]byte(v.configured), []byte(presented)); err != nil {
			// Same message for mismatch and malformed hash
			return fmt.Errorf("cron secret verification failed")
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(v.configured), []byte(presented)) != 1 {
		return fmt.Errorf("cron secret verification failed")
	}
	return nil
}

// HashCronSecret produces the bcrypt form for the config file.
func HashCronSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash cron secret: %w", err)
	}
	return string(hash), nil
}
