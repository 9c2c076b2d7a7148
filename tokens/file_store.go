package tokens

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const tokenFileName = "tokens.json"

// FileStore keeps the token pair in a JSON file under the portal's data
// folder so a restart picks up the previous session's credentials.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates the data folder if needed and returns a store backed
// by <folder>/tokens.json.
func NewFileStore(folder string) (*FileStore, error) {
	if folder == "" {
		return nil, fmt.Errorf("[NewFileStore] folder is required")
	}
	if err := os.MkdirAll(folder, 0o700); err != nil {
		return nil, fmt.Errorf("[NewFileStore] create folder: %w", err)
	}
	return &FileStore{path: filepath.Join(folder, tokenFileName)}, nil
}

func (s *FileStore) AccessToken() (string, bool) {
	return s.get(AccessTokenKey)
}

func (s *FileStore) SetAccessToken(token string) error {
	return s.set(AccessTokenKey, token)
}

func (s *FileStore) ClearAccessToken() error {
	return s.clear(AccessTokenKey)
}

func (s *FileStore) RefreshToken() (string, bool) {
	return s.get(RefreshTokenKey)
}

func (s *FileStore) SetRefreshToken(token string) error {
	return s.set(RefreshTokenKey, token)
}

func (s *FileStore) ClearRefreshToken() error {
	return s.clear(RefreshTokenKey)
}

func (s *FileStore) get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.load()[key]
	if token == "" {
		return "", false
	}
	return token, ok
}

func (s *FileStore) set(key, token string) error {
	if token == "" {
		return s.clear(key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(func(data map[string]string) {
		data[key] = token
	})
}

func (s *FileStore) clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(func(data map[string]string) {
		delete(data, key)
	})
}

// load reads the token file, treating a missing or corrupt file as empty.
// Callers must hold s.mu.
func (s *FileStore) load() map[string]string {
	data := map[string]string{}
	if raw, err := os.ReadFile(s.path); err == nil {
		_ = json.Unmarshal(raw, &data)
	}
	return data
}

// update rewrites the whole file through a temp-file rename so a crash never
// leaves a half-written token pair. Callers must hold s.mu.
func (s *FileStore) update(mutate func(map[string]string)) error {
	data := s.load()
	mutate(data)

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("[FileStore update] marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("[FileStore update] write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("[FileStore update] rename: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
