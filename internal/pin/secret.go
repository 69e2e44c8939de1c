package pin

import (
	"fmt"

	"github.com/mmcdole/hoard/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Length is the number of digits in a PIN
const Length = 4

// Secret is an existing PIN the entered value is checked against
type Secret interface {
	Matches(pin string) bool
}

// PlainSecret is a PIN held in clear text
type PlainSecret string

func (s PlainSecret) Matches(pin string) bool {
	return string(s) == pin
}

// HashedSecret is a bcrypt hash of a PIN
type HashedSecret string

func (s HashedSecret) Matches(pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(s), []byte(pin)) == nil
}

// Hash returns the bcrypt hash of a valid PIN
func Hash(pin string) (HashedSecret, error) {
	if err := Validate(pin); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return HashedSecret(hash), nil
}

// Validate returns domain.ErrInvalidPin unless pin is exactly four ASCII digits
func Validate(pin string) error {
	if !isComplete(pin) {
		return domain.ErrInvalidPin
	}
	return nil
}

func isComplete(pin string) bool {
	if len(pin) != Length {
		return false
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}
	return true
}
