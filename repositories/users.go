package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brainchat/models"
)

// ErrUserNotFound is returned by operations that require a pre-existing
// account, such as Credit.
var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

// GetOrCreate returns the account for userID, creating it with the default
// starting balance on first reference. The upsert is a single atomic
// operation, so exactly one account exists per user_id even under
// concurrent first requests.
func (r *UserRepository) GetOrCreate(ctx context.Context, userID string) (*models.User, error) {
	now := time.Now()
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"user_id":        userID,
			"wallet_balance": models.DefaultWalletBalance,
			"created_at":     now,
		},
		"$set": bson.M{
			"updated_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var u models.User
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Credit adds amount to the stored balance and returns the new balance.
// No account is created on miss; amount is not validated here, the caller
// owns that trust boundary. Negative amounts therefore debit.
func (r *UserRepository) Credit(ctx context.Context, userID string, amount int) (int, error) {
	update := bson.M{
		"$inc": bson.M{"wallet_balance": amount},
		"$set": bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u models.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}
	return u.WalletBalance, nil
}

// DebitIfSufficient decrements the balance by amount only when the current
// balance covers it, as one atomic conditional update. applied=false means
// the balance was insufficient (or the account vanished); no partial state
// is possible, so two concurrent debits can never both succeed against the
// same tokens.
func (r *UserRepository) DebitIfSufficient(ctx context.Context, userID string, amount int) (newBalance int, applied bool, err error) {
	filter := bson.M{
		"user_id":        userID,
		"wallet_balance": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"wallet_balance": -amount},
		"$set": bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u models.User
	err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return u.WalletBalance, true, nil
}
