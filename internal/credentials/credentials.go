// Package credentials loads exchange API secrets. Secret material never
// leaves this package in logs, errors or persisted state.
package credentials

import (
	"os"

	"github.com/pkg/errors"
)

// Secret is one exchange API credential set.
type Secret struct {
	Key        string
	Secret     string
	Passphrase string
}

// String masks the credential so accidental formatting never leaks it.
func (s Secret) String() string { return "credentials[redacted]" }

// Store resolves the credential set for the exchange gateway.
type Store interface {
	Load() (Secret, error)
}

// EnvStore reads credentials from the process environment.
type EnvStore struct {
	KeyVar        string
	SecretVar     string
	PassphraseVar string
}

func NewEnvStore() *EnvStore {
	return &EnvStore{
		KeyVar:        "OKX_API_KEY",
		SecretVar:     "OKX_API_SECRET",
		PassphraseVar: "OKX_API_PASSPHRASE",
	}
}

func (s *EnvStore) Load() (Secret, error) {
	sec := Secret{
		Key:        os.Getenv(s.KeyVar),
		Secret:     os.Getenv(s.SecretVar),
		Passphrase: os.Getenv(s.PassphraseVar),
	}
	if sec.Key == "" || sec.Secret == "" {
		return Secret{}, errors.Errorf("exchange credentials missing: set %s and %s", s.KeyVar, s.SecretVar)
	}
	return sec, nil
}
