package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Validate = validator.New()

// ErrNotFound is returned by repos when a lookup matches nothing
// (including records that only exist as soft-deleted).
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned by CreateUser when the unique email
// index rejects an insert.
var ErrDuplicateEmail = errors.New("email already exists")

const (
	UsersColName    = "users"
	MessagesColName = "messages"
	TokensColName   = "blacklisted_tokens"
)

type MongodbRepo struct {
	client *mongo.Client
	dbName string
}

func MongodbNewRepo(client *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		client: client,
		dbName: dbName,
	}
}

func (mdb *MongodbRepo) collection(name string) *mongo.Collection {
	return mdb.client.Database(mdb.dbName).Collection(name)
}

// notDeleted is the single place the soft-delete filter is written.
// Every repo read composes its filter through it, so no query can
// accidentally surface a deleted record.
func notDeleted(filter bson.M) bson.M {
	if filter == nil {
		filter = bson.M{}
	}
	filter["isDeleted"] = false
	return filter
}

// EnsureIndexes creates the unique, sparse and TTL indexes the
// collections rely on. Safe to call on every startup.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	users := mdb.collection(UsersColName)
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_email_unique"),
		},
		{
			Keys:    bson.D{{Key: "googleId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("idx_googleId_unique"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %v", err)
	}

	tokens := mdb.collection(TokensColName)
	_, err = tokens.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tokenId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_tokenId_unique"),
		},
		{
			// expireAfterSeconds 0 means "expire at expirationDate".
			Keys:    bson.D{{Key: "expirationDate", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_token_ttl"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create token indexes: %v", err)
	}

	messages := mdb.collection(MessagesColName)
	_, err = messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "receiverId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_receiver_createdAt"),
	})
	if err != nil {
		return fmt.Errorf("failed to create message indexes: %v", err)
	}
	return nil
}
