package auth

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"instarecon/pkg/config"
)

// AppName names the keychain service and the config directory
const AppName = "instarecon"

// DefaultAccount is used when no account name is given
const DefaultAccount = "default"

// Account is a saved Instagram web session
type Account struct {
	Name         string    `json:"name"`
	SessionID    string    `json:"session_id"`
	CSRFToken    string    `json:"csrf_token"`
	UserAgent    string    `json:"user_agent,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Validate checks the fields a request needs
func (a *Account) Validate() error {
	switch {
	case a == nil:
		return ErrInvalidCredentials
	case a.Name == "":
		return fmt.Errorf("%w: account name is required", ErrInvalidCredentials)
	case a.SessionID == "":
		return fmt.Errorf("%w: session ID is required", ErrInvalidCredentials)
	case a.CSRFToken == "":
		return fmt.Errorf("%w: CSRF token is required", ErrInvalidCredentials)
	}
	return nil
}

// ApplyTo copies the session into the fetcher configuration
func (a *Account) ApplyTo(cfg *config.InstagramConfig) {
	cfg.SessionID = a.SessionID
	cfg.CSRFToken = a.CSRFToken
	if a.UserAgent != "" {
		cfg.UserAgent = a.UserAgent
	}
}

// CredentialStore is one place accounts can live
type CredentialStore interface {
	Name() string
	Store(account *Account) error
	Retrieve(name string) (*Account, error)
	List() ([]*Account, error)
	Delete(name string) error
}

// Manager tries its stores in order
type Manager struct {
	stores []CredentialStore
}

// NewManagerWithStores creates a Manager over explicit stores
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// NewManager uses the keychain when available, then an encrypted file in
// configDir, then the environment. An empty configDir uses the user config
// directory.
func NewManager(configDir string) (*Manager, error) {
	var stores []CredentialStore

	if ks, err := NewKeyringStore(); err == nil {
		stores = append(stores, ks)
	}

	if configDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		configDir = dir
	}

	passphrase, err := ResolvePassphrase(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get passphrase: %w", err)
	}
	fs, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"), passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, fs)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// Stores returns the store names in lookup order
func (m *Manager) Stores() []string {
	names := make([]string, 0, len(m.stores))
	for _, s := range m.stores {
		names = append(names, s.Name())
	}
	return names
}

// Store saves the account in the first store that accepts it and returns
// that store's name
func (m *Manager) Store(account *Account) (string, error) {
	if err := account.Validate(); err != nil {
		return "", err
	}
	account.LastModified = time.Now()

	var errs []error
	for _, store := range m.stores {
		err := store.Store(account)
		if err == nil {
			return store.Name(), nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", store.Name(), err))
	}

	if len(errs) == 0 {
		return "", ErrStoreUnavailable
	}
	return "", fmt.Errorf("failed to store credentials: %w", stderrors.Join(errs...))
}

// Retrieve returns the account from the first store that has it
func (m *Manager) Retrieve(name string) (*Account, error) {
	for _, store := range m.stores {
		if account, err := store.Retrieve(name); err == nil && account != nil {
			return account, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCredentialsNotFound, name)
}

// Resolve returns the named account, or with an empty name the default
// account, or the most recently modified one
func (m *Manager) Resolve(name string) (*Account, error) {
	if name != "" {
		return m.Retrieve(name)
	}
	if account, err := m.Retrieve(DefaultAccount); err == nil {
		return account, nil
	}

	accounts, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrCredentialsNotFound
	}
	return accounts[0], nil
}

// List merges the accounts of every store, newest first
func (m *Manager) List() ([]*Account, error) {
	byName := make(map[string]*Account)

	for _, store := range m.stores {
		accounts, err := store.List()
		if err != nil {
			continue
		}
		for _, account := range accounts {
			if existing, ok := byName[account.Name]; !ok || account.LastModified.After(existing.LastModified) {
				byName[account.Name] = account
			}
		}
	}

	result := make([]*Account, 0, len(byName))
	for _, account := range byName {
		result = append(result, account)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].LastModified.Equal(result[j].LastModified) {
			return result[i].LastModified.After(result[j].LastModified)
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Delete removes the account from every store holding it
func (m *Manager) Delete(name string) error {
	deleted := false
	for _, store := range m.stores {
		if err := store.Delete(name); err == nil {
			deleted = true
		}
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrCredentialsNotFound, name)
	}
	return nil
}

// ConfigDir returns the per-user directory for instarecon state
func ConfigDir() (string, error) {
	var dir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, "Library", "Application Support", AppName)
	case "windows":
		dir = filepath.Join(os.Getenv("APPDATA"), AppName)
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			dir = filepath.Join(xdg, AppName)
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dir = filepath.Join(home, ".config", AppName)
		}
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// Masked returns a copy safe to print
func (a *Account) Masked() *Account {
	if a == nil {
		return nil
	}
	masked := *a
	masked.SessionID = maskString(a.SessionID)
	masked.CSRFToken = maskString(a.CSRFToken)
	return &masked
}

// maskString keeps the first and last four characters
func maskString(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

var (
	ErrCredentialsNotFound = stderrors.New("credentials not found")
	ErrInvalidCredentials  = stderrors.New("invalid credentials")
	ErrStoreUnavailable    = stderrors.New("credential store unavailable")
)
