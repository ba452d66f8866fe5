package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := Session{UserID: uuid.New(), Email: "ana@example.com", UserType: UserTypeProvider}
	got, ok := FromContext(WithSession(context.Background(), s))
	assert.True(t, ok)
	assert.Equal(t, s, got)
	assert.True(t, got.IsProvider())
	assert.False(t, got.IsClient())
}

func TestUserTypeValid(t *testing.T) {
	assert.True(t, UserTypeClient.Valid())
	assert.True(t, UserTypeProvider.Valid())
	assert.False(t, UserType("admin").Valid())
}
