package usecase

import (
	"trocagames/internal/domain/entity"
	"trocagames/pkg/errors"
	"trocagames/pkg/validation"
)

// NotificationRelay fans notifications out to the browser connections of a session.
type NotificationRelay interface {
	NotifySession(sessionID string, n entity.Notification)
	CloseSession(sessionID string)
}

// validate checks input before anything is sent to the API.
func validate(input interface{}) error {
	if err := validation.Struct(input); err != nil {
		return errors.Validation(validation.Message(err), err)
	}
	return nil
}
