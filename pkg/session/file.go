package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/websketch/websketch/pkg/errors"
	"github.com/websketch/websketch/pkg/sketch"
)

// FileStore is a file-based session store for the CLI. Each session is one
// JSON file; expiry is judged from the file's stored updatedAt on access.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	ttl     time.Duration
}

// NewFileStore creates a file-based session store.
// If baseDir is empty, defaults to ~/.config/websketch/sessions/.
// A zero ttl means DefaultTTL.
func NewFileStore(baseDir string, ttl time.Duration) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "websketch", "sessions")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FileStore{baseDir: baseDir, ttl: ttl}, nil
}

func (s *FileStore) sessionPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Create(ctx context.Context, initial []sketch.Component, id string) (string, error) {
	sess := NewSession(id, initial)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(sess); err != nil {
		return "", err
	}
	return sess.ID, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(id, true)
}

func (s *FileStore) Update(ctx context.Context, id string, req UpdateRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.read(id, false)
	if err != nil {
		return err
	}
	sess.apply(req)
	return s.write(sess)
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.sessionPath(id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeSessionStore, err, "failed to delete session %s", id)
	}
	return nil
}

func (s *FileStore) ExtendTTL(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.read(id, false)
	if err != nil {
		return err
	}
	sess.UpdatedAt = time.Now().UTC()
	return s.write(sess)
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for session files.
func (s *FileStore) Path() string {
	return s.baseDir
}

// List returns all live sessions sorted by most recently updated. Expired
// and unreadable files are skipped, not removed; Cleanup handles eviction.
func (s *FileStore) List(ctx context.Context) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSessionStore, err, "failed to read session dir")
	}

	now := time.Now()
	var sessions []*Session
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var sess Session
		if err := json.Unmarshal(data, &sess); err != nil {
			continue
		}
		if now.After(sess.UpdatedAt.Add(s.ttl)) {
			continue
		}
		sessions = append(sessions, &sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

// Cleanup removes expired session files.
func (s *FileStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionStore, err, "failed to read session dir")
	}

	now := time.Now()
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var sess Session
		if err := json.Unmarshal(data, &sess); err != nil {
			continue
		}
		if now.After(sess.UpdatedAt.Add(s.ttl)) {
			os.Remove(path)
		}
	}
	return nil
}

// read loads a session, evicting it if expired. If renew is true the
// updatedAt timestamp is bumped and persisted, matching the access-renews-TTL
// behavior of the server backends. Callers must hold the lock.
func (s *FileStore) read(id string, renew bool) (*Session, error) {
	data, err := os.ReadFile(s.sessionPath(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSessionStore, err, "failed to read session %s", id)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSessionStore, err, "corrupt session file %s", id)
	}

	if time.Now().After(sess.UpdatedAt.Add(s.ttl)) {
		os.Remove(s.sessionPath(id))
		return nil, notFound(id)
	}

	if renew {
		sess.UpdatedAt = time.Now().UTC()
		if err := s.write(&sess); err != nil {
			return nil, err
		}
	}
	return &sess, nil
}

// write persists a session. Callers must hold the lock.
func (s *FileStore) write(sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionStore, err, "failed to encode session %s", sess.ID)
	}
	if err := os.WriteFile(s.sessionPath(sess.ID), data, 0600); err != nil {
		return errors.Wrap(errors.ErrCodeSessionStore, err, "failed to write session %s", sess.ID)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
