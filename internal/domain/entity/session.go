package entity

import "time"

// Session is one signed-in identity: the cached user and its opaque bearer token.
type Session struct {
	ID        string    `json:"id" firestore:"id"`
	User      User      `json:"user" firestore:"user"`
	Token     string    `json:"token" firestore:"token"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func (s *Session) UserID() int64 {
	if s == nil {
		return 0
	}
	return s.User.ID
}

func (s *Session) BearerToken() string {
	if s == nil {
		return ""
	}
	return s.Token
}
