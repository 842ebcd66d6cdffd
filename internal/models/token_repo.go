package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type TokenRepo interface {
	BlacklistToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsTokenBlacklisted(ctx context.Context, jti string) (bool, error)
}

func (mdb *MongodbRepo) BlacklistToken(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := mdb.collection(TokensColName).InsertOne(ctx, &BlacklistedToken{
		TokenID:        jti,
		ExpirationDate: expiresAt,
		CreatedAt:      time.Now(),
	})
	// Logging out twice with the same token is a no-op, not an error.
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to blacklist token: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	err := mdb.collection(TokensColName).
		FindOne(ctx, bson.M{"tokenId": jti}).
		Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %v", err)
	}
	return true, nil
}
