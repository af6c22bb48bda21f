package usecase

import (
	"context"

	"trocagames/internal/domain/entity"
	"trocagames/internal/domain/gateway"
	"trocagames/pkg/logger"
)

type AuthUseCase struct {
	authGateway   gateway.AuthGateway
	sessions      *SessionStore
	notifications *NotificationUseCase
}

func NewAuthUseCase(authGateway gateway.AuthGateway, sessions *SessionStore, notifications *NotificationUseCase) *AuthUseCase {
	return &AuthUseCase{
		authGateway:   authGateway,
		sessions:      sessions,
		notifications: notifications,
	}
}

// SignIn validates the credentials locally, logs in and opens a session subscribed to
// push notifications.
func (uc *AuthUseCase) SignIn(ctx context.Context, credentials entity.Credentials) (*entity.Session, error) {
	if err := validate(credentials); err != nil {
		return nil, err
	}

	user, token, err := uc.authGateway.Login(ctx, credentials)
	if err != nil {
		return nil, err
	}

	session, err := uc.sessions.Open(ctx, *user, token)
	if err != nil {
		return nil, err
	}

	if uc.notifications != nil {
		uc.notifications.Start(session)
	}

	logger.Info("User %d signed in", user.ID)
	return session, nil
}

func (uc *AuthUseCase) Register(ctx context.Context, registration entity.Registration) error {
	if err := validate(registration); err != nil {
		return err
	}

	if err := uc.authGateway.Register(ctx, registration); err != nil {
		return err
	}

	logger.Info("Registered new account for %s", registration.Email)
	return nil
}

// SignOut closes the session. The close hooks tear down its notification channel.
func (uc *AuthUseCase) SignOut(ctx context.Context, sessionID string) error {
	return uc.sessions.Close(ctx, sessionID)
}
