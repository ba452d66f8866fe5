// Package session carries the authenticated caller through a request.
package session

import (
	"context"

	"github.com/google/uuid"
)

type UserType string

const (
	UserTypeClient   UserType = "client"
	UserTypeProvider UserType = "provider"
)

func (t UserType) Valid() bool {
	return t == UserTypeClient || t == UserTypeProvider
}

// Session is the explicit replacement for the browser-side {userId, userType} pair.
type Session struct {
	UserID   uuid.UUID
	Email    string
	UserType UserType
	TokenID  string
}

func (s Session) IsClient() bool   { return s.UserType == UserTypeClient }
func (s Session) IsProvider() bool { return s.UserType == UserTypeProvider }

type contextKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
