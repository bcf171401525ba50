package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultWalletBalance is the token grant for a newly observed user.
const DefaultWalletBalance = 50

// User represents a chat user and their prepaid token wallet.
// Collection: users
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
	UserID        string             `bson:"user_id" json:"user_id"`
	WalletBalance int                `bson:"wallet_balance" json:"wallet_balance"`
}
