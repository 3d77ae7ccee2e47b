package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	userDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/user"
	"github.com/devnazarchuk/depity-hr-sub000/internal/storage"
)

type storedCredential struct {
	UserID       string `json:"user_id"`
	PasswordHash string `json:"password_hash"`
}

// StoreCredentials keeps an email-keyed credential map in the key/value
// store. The map is reloaded on every lookup so a seed or user change
// is visible immediately.
type StoreCredentials struct {
	store  storage.Store
	logger *slog.Logger
	cost   int
}

func NewStoreCredentials(store storage.Store, logger *slog.Logger) *StoreCredentials {
	return &StoreCredentials{store: store, logger: logger, cost: bcrypt.DefaultCost}
}

func (c *StoreCredentials) GetPasswordForEmail(email string) (string, string, error) {
	creds, err := c.load()
	if err != nil {
		return "", "", err
	}
	cred, ok := creds[email]
	if !ok {
		return "", "", ErrInvalidCredentials
	}
	return cred.PasswordHash, cred.UserID, nil
}

// Set hashes password and stores it for email, replacing any previous
// credential.
func (c *StoreCredentials) Set(email, password, userID string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return err
	}

	creds, err := c.load()
	if err != nil {
		return err
	}
	creds[email] = storedCredential{UserID: userID, PasswordHash: string(hash)}

	blob, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return c.store.Write(storage.KeyCredentials, blob)
}

func (c *StoreCredentials) Remove(email string) error {
	creds, err := c.load()
	if err != nil {
		return err
	}
	delete(creds, email)

	blob, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return c.store.Write(storage.KeyCredentials, blob)
}

func (c *StoreCredentials) load() (map[string]storedCredential, error) {
	blob, ok, err := c.store.Read(storage.KeyCredentials)
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]storedCredential{}, nil
	}

	var creds map[string]storedCredential
	if err := json.Unmarshal(blob, &creds); err != nil {
		// corrupt credential map: fall back to empty, every login fails
		// closed until reseeded
		c.logger.Warn("discarding corrupt credential store", "error", err)
		return map[string]storedCredential{}, nil
	}
	return creds, nil
}

// StoreDirectory resolves actor records straight from the persisted
// users collection, so the session manager never holds a stale copy of
// the directory.
type StoreDirectory struct {
	store  storage.Store
	logger *slog.Logger
}

func NewStoreDirectory(store storage.Store, logger *slog.Logger) *StoreDirectory {
	return &StoreDirectory{store: store, logger: logger}
}

func (d *StoreDirectory) GetByEmail(email string) (*userDatamodel.User, error) {
	users, err := d.load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUserNotFound, email)
}

func (d *StoreDirectory) GetByID(id string) (*userDatamodel.User, error) {
	users, err := d.load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
}

func (d *StoreDirectory) load() ([]userDatamodel.User, error) {
	blob, ok, err := d.store.Read(storage.KeyUsers)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var users []userDatamodel.User
	if err := json.Unmarshal(blob, &users); err != nil {
		d.logger.Warn("discarding corrupt users collection", "error", err)
		return nil, nil
	}
	return users, nil
}
