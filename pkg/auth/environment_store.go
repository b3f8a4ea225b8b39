package auth

import (
	"os"
	"time"
)

// Environment variables read by EnvironmentStore
const (
	EnvSessionID = "INSTARECON_SESSION_ID"
	EnvCSRFToken = "INSTARECON_CSRF_TOKEN"
	EnvUserAgent = "INSTARECON_USER_AGENT"
)

// EnvironmentStore exposes a read-only account built from environment variables
type EnvironmentStore struct{}

// NewEnvironmentStore creates an EnvironmentStore
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func (e *EnvironmentStore) Name() string { return "environment" }

// Store is not supported
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment account under any name
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	sessionID := os.Getenv(EnvSessionID)
	csrfToken := os.Getenv(EnvCSRFToken)
	if sessionID == "" || csrfToken == "" {
		return nil, ErrCredentialsNotFound
	}

	if name == "" {
		name = DefaultAccount
	}
	return &Account{
		Name:         name,
		SessionID:    sessionID,
		CSRFToken:    csrfToken,
		UserAgent:    os.Getenv(EnvUserAgent),
		LastModified: time.Now(),
	}, nil
}

// List returns the environment account if set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}
