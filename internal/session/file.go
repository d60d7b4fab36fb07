package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// fileState is the on-disk layout. Field names mirror the storage keys.
type fileState struct {
	Token         string `json:"token"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	AccountNumber string `json:"accountNumber"`
}

// FileStore persists the session as a JSON file, the CLI's analogue of
// the browser's localStorage. The file is written 0600 since it holds a
// bearer token.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFileStore places the session file under the user config
// directory (e.g. ~/.config/mirabank/session.json).
func DefaultFileStore() (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return NewFileStore(filepath.Join(dir, "mirabank", "session.json")), nil
}

func (f *FileStore) Load(ctx context.Context) (*Session, error) {
	st, err := f.read()
	if err != nil {
		return nil, err
	}
	if st == nil || st.Token == "" && st.Email == "" {
		return nil, nil
	}
	return &Session{Token: st.Token, Email: st.Email, Username: st.Username}, nil
}

func (f *FileStore) Save(ctx context.Context, s Session) error {
	st, err := f.read()
	if err != nil {
		return err
	}
	if st == nil {
		st = &fileState{}
	}
	st.Token = s.Token
	st.Email = s.Email
	st.Username = s.Username
	return f.write(st)
}

func (f *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear session file: %w", err)
	}
	return nil
}

func (f *FileStore) AccountNumber(ctx context.Context) (string, error) {
	st, err := f.read()
	if err != nil {
		return "", err
	}
	if st == nil {
		return "", nil
	}
	return st.AccountNumber, nil
}

func (f *FileStore) SetAccountNumber(ctx context.Context, accountNumber string) error {
	st, err := f.read()
	if err != nil {
		return err
	}
	if st == nil {
		st = &fileState{}
	}
	st.AccountNumber = accountNumber
	return f.write(st)
}

func (f *FileStore) read() (*fileState, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return &st, nil
}

func (f *FileStore) write(st *fileState) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
