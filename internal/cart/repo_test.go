package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFindOrCreateCartReturnsExisting(t *testing.T) {
	conn := setupCartTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	userID := uuid.New()

	first, err := repo.FindOrCreateCartByUser(ctx, userID)
	require.NoError(t, err)

	second, err := repo.FindOrCreateCartByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestFindOrCreateCartConvergesOnConflict(t *testing.T) {
	conn := setupCartTestDB(t)
	ctx := context.Background()
	userID := uuid.New()
	winnerID := uuid.New()

	// seed a competing cart between the find and the insert, the way a
	// concurrent first request would commit first
	seeded := false
	err := conn.Callback().Create().Before("gorm:create").Register("seed_competing_cart", func(tx *gorm.DB) {
		if seeded || tx.Statement == nil || tx.Statement.Table != "carts" {
			return
		}
		seeded = true
		seedErr := conn.Session(&gorm.Session{NewDB: true}).
			Exec("INSERT INTO carts (id, user_id) VALUES (?, ?)", winnerID.String(), userID.String()).Error
		require.NoError(t, seedErr)
	})
	require.NoError(t, err)

	repo := NewRepository(conn.Session(&gorm.Session{SkipDefaultTransaction: true}))

	cart, err := repo.FindOrCreateCartByUser(ctx, userID)
	require.NoError(t, err)
	require.True(t, seeded, "competing insert did not run")
	assert.Equal(t, winnerID, cart.ID)
}
