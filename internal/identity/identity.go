package identity

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrUserNotFound = errors.New("user not found")

// Service answers existence checks against the user store. Registration and
// authentication live elsewhere; this core only needs to know the user is real
// before letting a cart or order reference it.
type Service interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

type mongoIdentity struct {
	users *mongo.Collection
}

func NewMongoIdentity(db *mongo.Database) Service {
	return &mongoIdentity{users: db.Collection("users")}
}

func (m *mongoIdentity) Exists(ctx context.Context, userID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, nil
	}

	count, err := m.users.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}
