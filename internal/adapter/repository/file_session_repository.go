package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"trocagames/internal/domain/entity"
	"trocagames/internal/domain/repository"
	"trocagames/pkg/errors"
)

// fileSessionRepository keeps one JSON document per session in dir, the server-side
// counterpart of the browser's localStorage.
type fileSessionRepository struct {
	dir string
	mu  sync.Mutex
}

func NewFileSessionRepository(dir string) (repository.SessionRepository, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Internal("Failed to create session directory", err)
	}
	return &fileSessionRepository{dir: dir}, nil
}

func (r *fileSessionRepository) path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.BadRequest("Invalid session id", err)
	}
	return filepath.Join(r.dir, id+".json"), nil
}

func (r *fileSessionRepository) Save(ctx context.Context, session *entity.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	path, err := r.path(session.ID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return errors.Internal("Failed to encode session", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Internal("Failed to write session", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Internal("Failed to write session", err)
	}
	return nil
}

func (r *fileSessionRepository) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	path, err := r.path(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return readSession(path)
}

func readSession(path string) (*entity.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("Sessão", err)
		}
		return nil, errors.Internal("Failed to read session", err)
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Internal("Failed to parse session data", err)
	}
	return &session, nil
}

func (r *fileSessionRepository) List(ctx context.Context) ([]*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, errors.Internal("Failed to list sessions", err)
	}

	sessions := make([]*entity.Session, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		session, err := readSession(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			// A corrupt file is an unusable session, not a reason to refuse startup.
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (r *fileSessionRepository) Delete(ctx context.Context, id string) error {
	path, err := r.path(id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Internal("Failed to delete session", err)
	}
	return nil
}
