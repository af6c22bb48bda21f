package usecase

import (
	"context"

	"trocagames/internal/domain/entity"
	"trocagames/internal/domain/gateway"
	"trocagames/pkg/errors"
)

// UserUseCase reads and edits the signed-in user's profile.
type UserUseCase struct {
	userGateway gateway.UserGateway
	sessions    *SessionStore
}

func NewUserUseCase(userGateway gateway.UserGateway, sessions *SessionStore) *UserUseCase {
	return &UserUseCase{
		userGateway: userGateway,
		sessions:    sessions,
	}
}

// GetProfile fetches the profile from the API and refreshes the cached copy.
func (uc *UserUseCase) GetProfile(ctx context.Context, session *entity.Session) (*entity.User, error) {
	user, err := uc.userGateway.Get(ctx, session.Token, session.User.ID)
	if err != nil {
		return nil, uc.sessions.Guard(ctx, session.ID, err)
	}

	if _, err := uc.sessions.UpdateUser(ctx, session.ID, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile sends the changed fields, then the photo when one is given, and returns
// the profile as stored by the API.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, session *entity.Session, patch entity.ProfilePatch, photo *entity.Upload) (*entity.User, error) {
	if patch.Empty() && photo == nil {
		return nil, errors.BadRequest("Nenhuma alteração informada.", nil)
	}

	if !patch.Empty() {
		if err := uc.userGateway.Update(ctx, session.Token, session.User.ID, patch); err != nil {
			return nil, uc.sessions.Guard(ctx, session.ID, err)
		}
	}

	if photo != nil {
		_, err := uc.userGateway.UploadPhoto(ctx, session.Token, session.User.ID, *photo, session.User.FotoURL)
		if err != nil {
			return nil, uc.sessions.Guard(ctx, session.ID, err)
		}
	}

	return uc.GetProfile(ctx, session)
}
