package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"trocagames/internal/domain/entity"
	"trocagames/internal/domain/repository"
	"trocagames/pkg/errors"
)

const sessionsCollection = "sessions"

type firestoreSessionRepository struct {
	client *firestore.Client
}

func NewFirestoreSessionRepository(client *firestore.Client) repository.SessionRepository {
	return &firestoreSessionRepository{
		client: client,
	}
}

func (r *firestoreSessionRepository) Save(ctx context.Context, session *entity.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	_, err := r.client.Collection(sessionsCollection).Doc(session.ID).Set(ctx, session)
	if err != nil {
		return errors.Internal("Failed to save session", err)
	}

	return nil
}

func (r *firestoreSessionRepository) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	doc, err := r.client.Collection(sessionsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Sessão", err)
		}
		return nil, errors.Internal("Failed to get session", err)
	}

	var session entity.Session
	if err := doc.DataTo(&session); err != nil {
		return nil, errors.Internal("Failed to parse session data", err)
	}

	return &session, nil
}

func (r *firestoreSessionRepository) List(ctx context.Context) ([]*entity.Session, error) {
	iter := r.client.Collection(sessionsCollection).Documents(ctx)
	defer iter.Stop()

	var sessions []*entity.Session
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list sessions", err)
		}

		var session entity.Session
		if err := doc.DataTo(&session); err != nil {
			continue
		}
		sessions = append(sessions, &session)
	}

	return sessions, nil
}

func (r *firestoreSessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(sessionsCollection).Doc(id).Delete(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return errors.Internal("Failed to delete session", err)
	}

	return nil
}
