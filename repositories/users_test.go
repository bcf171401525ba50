package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brainchat/models"
	"brainchat/repositories"
)

// testDatabase connects to the Mongo instance named by MONGODB_URI and
// returns a throwaway database that is dropped on cleanup. Tests are
// skipped when no instance is available.
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set; skipping Mongo integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database(fmt.Sprintf("brainchat_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestGetOrCreate(t *testing.T) {
	repo := repositories.NewUserRepository(testDatabase(t))
	ctx := context.Background()

	created, err := repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, models.DefaultWalletBalance, created.WalletBalance)

	// Second call returns the same account, not a fresh one.
	again, err := repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, models.DefaultWalletBalance, again.WalletBalance)
}

func TestCredit(t *testing.T) {
	repo := repositories.NewUserRepository(testDatabase(t))
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, "u3")
	require.NoError(t, err)

	newBalance, err := repo.Credit(ctx, "u3", 200)
	require.NoError(t, err)
	assert.Equal(t, 250, newBalance)

	_, err = repo.Credit(ctx, "ghost", 200)
	assert.True(t, errors.Is(err, repositories.ErrUserNotFound))
}

func TestDebitIfSufficient(t *testing.T) {
	repo := repositories.NewUserRepository(testDatabase(t))
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, "u2")
	require.NoError(t, err)

	// Starting balance 50 does not cover 100.
	_, applied, err := repo.DebitIfSufficient(ctx, "u2", 100)
	require.NoError(t, err)
	assert.False(t, applied)

	newBalance, err := repo.Credit(ctx, "u2", 100)
	require.NoError(t, err)
	assert.Equal(t, 150, newBalance)

	newBalance, applied, err = repo.DebitIfSufficient(ctx, "u2", 100)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 50, newBalance)

	// Exact-boundary debit drains to zero; a further debit is refused.
	newBalance, applied, err = repo.DebitIfSufficient(ctx, "u2", 50)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 0, newBalance)

	_, applied, err = repo.DebitIfSufficient(ctx, "u2", 1)
	require.NoError(t, err)
	assert.False(t, applied)

	_, applied, err = repo.DebitIfSufficient(ctx, "ghost", 10)
	require.NoError(t, err)
	assert.False(t, applied)
}
