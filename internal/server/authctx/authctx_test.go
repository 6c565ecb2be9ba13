package authctx

import (
	"context"
	"testing"

	"rentflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentUserRoundTrip(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	assert.Equal(t, "", Actor(context.Background()))

	id := uuid.New()
	ctx := WithCurrentUser(context.Background(), CurrentUser{ID: id, Email: "manager@example.com", Role: domain.RoleManager})
	u := FromContext(ctx)
	require.NotNil(t, u)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, domain.RoleManager, u.Role)
	assert.Equal(t, "manager@example.com", Actor(ctx))
}
