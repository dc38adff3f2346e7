package store

import (
	"context"
	"testing"

	users "github.com/AdamBeresnev/shuttle-bracket/internal/user"
	"github.com/AdamBeresnev/shuttle-bracket/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserByProvider(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	store := NewUserStore(db)

	user := &users.User{
		Email:      "ana@example.com",
		Username:   "ana",
		Provider:   utils.Ptr("discord"),
		ProviderID: utils.Ptr("1234"),
	}
	require.NoError(t, store.CreateUser(ctx, user))

	fetched, err := store.GetUserByProvider(ctx, "discord", "1234")
	require.NoError(t, err)
	assert.Equal(t, user.ID, fetched.ID)
	assert.Nil(t, fetched.AvatarURL)

	fetched.Username = "ana_k"
	fetched.AvatarURL = utils.Ptr("https://cdn.example.com/ana.png")
	require.NoError(t, store.UpdateUserNameAndAvatar(ctx, fetched))

	updated, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana_k", updated.Username)
	assert.Equal(t, "https://cdn.example.com/ana.png", utils.OrZero(updated.AvatarURL))
}

func TestResolveNames(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	store := NewUserStore(db)

	ana := createUser(t, db, "ana")
	ben := createUser(t, db, "ben")
	missing := uuid.New()

	names, err := store.ResolveNames(ctx, []uuid.UUID{ana.ID, ben.ID, missing})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]string{ana.ID: "ana", ben.ID: "ben"}, names)

	empty, err := store.ResolveNames(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
