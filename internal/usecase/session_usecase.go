package usecase

import (
	"context"
	"sync"

	"trocagames/internal/domain/entity"
	"trocagames/internal/domain/repository"
	"trocagames/pkg/errors"
	"trocagames/pkg/logger"
)

// SessionStore holds the live sessions in memory, backed by persisted storage so that a
// restart does not sign anyone out.
type SessionStore struct {
	repo repository.SessionRepository

	mu       sync.RWMutex
	sessions map[string]*entity.Session
	onClose  []func(session *entity.Session)
	onLoad   []func(session *entity.Session)
}

func NewSessionStore(repo repository.SessionRepository) *SessionStore {
	return &SessionStore{
		repo:     repo,
		sessions: make(map[string]*entity.Session),
	}
}

// OnClose registers a hook run after a session is closed, whatever the reason.
func (s *SessionStore) OnClose(hook func(session *entity.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClose = append(s.onClose, hook)
}

// OnLoad registers a hook run when Get finds a session in storage that this process did
// not have in memory.
func (s *SessionStore) OnLoad(hook func(session *entity.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLoad = append(s.onLoad, hook)
}

// Hydrate loads every persisted session. Sessions without a user or token are discarded.
func (s *SessionStore) Hydrate(ctx context.Context) ([]*entity.Session, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := make([]*entity.Session, 0, len(stored))
	for _, session := range stored {
		if session.Token == "" || session.User.ID == 0 {
			if err := s.repo.Delete(ctx, session.ID); err != nil {
				logger.Warn("Failed to discard incomplete session %s: %v", session.ID, err)
			}
			continue
		}
		s.sessions[session.ID] = session
		loaded = append(loaded, copySession(session))
		logger.LogSessionEvent(session.ID, session.User.ID, "hydrate")
	}

	return loaded, nil
}

func (s *SessionStore) Open(ctx context.Context, user entity.User, token string) (*entity.Session, error) {
	if token == "" || user.ID == 0 {
		return nil, errors.BadRequest("Dados de login inválidos.", nil)
	}

	session := &entity.Session{User: user, Token: token}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	logger.LogSessionEvent(session.ID, user.ID, "open")
	return copySession(session), nil
}

// Get returns a copy of the session, or SESSION_EXPIRED when it is unknown.
func (s *SessionStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	if id == "" {
		return nil, errors.SessionExpired(nil)
	}

	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return copySession(session), nil
	}

	// Another instance may have opened it against shared storage.
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) || errors.Is(err, errors.CodeBadRequest) {
			return nil, errors.SessionExpired(err)
		}
		return nil, err
	}

	s.mu.Lock()
	_, raced := s.sessions[id]
	if !raced {
		s.sessions[id] = session
	}
	session = s.sessions[id]
	hooks := append([]func(*entity.Session){}, s.onLoad...)
	s.mu.Unlock()

	if !raced {
		logger.LogSessionEvent(id, session.User.ID, "load")
		for _, hook := range hooks {
			hook(copySession(session))
		}
	}

	return copySession(session), nil
}

// UpdateUser replaces the cached copy of the signed-in user.
func (s *SessionStore) UpdateUser(ctx context.Context, id string, user entity.User) (*entity.Session, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	current.User = user
	if err := s.repo.Save(ctx, current); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[id] = current
	s.mu.Unlock()

	logger.LogSessionEvent(id, user.ID, "update_user")
	return copySession(current), nil
}

// Close removes the session from memory and storage and runs the close hooks.
func (s *SessionStore) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	hooks := append([]func(*entity.Session){}, s.onClose...)
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if !ok {
		session = &entity.Session{ID: id}
	}
	logger.LogSessionEvent(id, session.User.ID, "close")

	for _, hook := range hooks {
		hook(copySession(session))
	}
	return nil
}

// Guard closes the session when err says its token was rejected, then returns err.
func (s *SessionStore) Guard(ctx context.Context, id string, err error) error {
	if err == nil || !errors.IsSessionExpired(err) {
		return err
	}

	logger.LogSessionEvent(id, 0, "expired")
	if closeErr := s.Close(ctx, id); closeErr != nil {
		logger.Error("Failed to close expired session %s: %v", id, closeErr)
	}
	return err
}

// All returns a copy of every live session.
func (s *SessionStore) All() []*entity.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*entity.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		all = append(all, copySession(session))
	}
	return all
}

func copySession(session *entity.Session) *entity.Session {
	cp := *session
	return &cp
}
