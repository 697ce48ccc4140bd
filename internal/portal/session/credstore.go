// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore implements [CredentialStore] on a single file holding the raw
// bearer credential — the desktop equivalent of the browser's localStorage
// entry. An absent file means logged out.
type FileStore struct {
	path string
}

// NewFileStore creates a [FileStore] at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultCredentialPath returns the conventional credential location under
// the user's configuration directory.
func DefaultCredentialPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("session: cannot resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, "scolara", "credentials"), nil
}

// Load reads the persisted credential. An absent file is not an error.
func (store *FileStore) Load() (string, error) {
	data, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("session: failed to read credential file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the credential, creating parent directories as needed.
// The file is owner-readable only; it holds a live bearer credential.
func (store *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o700); err != nil {
		return fmt.Errorf("session: failed to create credential dir: %w", err)
	}
	if err := os.WriteFile(store.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("session: failed to write credential file: %w", err)
	}
	return nil
}

// Clear removes the persisted credential. Removing an absent file succeeds.
func (store *FileStore) Clear() error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: failed to remove credential file: %w", err)
	}
	return nil
}
