package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo interface {
	CreateMessage(ctx context.Context, msg *Message) error
	FindMessageByID(ctx context.Context, id primitive.ObjectID) (*Message, error)
	ListByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]*Message, error)
	ListPublicByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]*Message, error)
	SetMessageHidden(ctx context.Context, id primitive.ObjectID, hidden bool) error
	SoftDeleteMessage(ctx context.Context, id primitive.ObjectID) error
}

func (mdb *MongodbRepo) CreateMessage(ctx context.Context, msg *Message) error {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now

	_, err := mdb.collection(MessagesColName).InsertOne(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to create message: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) FindMessageByID(ctx context.Context, id primitive.ObjectID) (*Message, error) {
	var msg Message
	err := mdb.collection(MessagesColName).
		FindOne(ctx, notDeleted(bson.M{"_id": id})).
		Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find message: %v", err)
	}
	return &msg, nil
}

func (mdb *MongodbRepo) listMessages(ctx context.Context, filter bson.M) ([]*Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := mdb.collection(MessagesColName).Find(ctx, notDeleted(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %v", err)
	}
	defer cursor.Close(ctx)

	messages := []*Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %v", err)
	}
	return messages, nil
}

// ListByReceiver returns the owner's inbox: every non-deleted message,
// hidden or not, newest first.
func (mdb *MongodbRepo) ListByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]*Message, error) {
	return mdb.listMessages(ctx, bson.M{"receiverId": receiverID})
}

// ListPublicByReceiver returns the unauthenticated view: non-deleted
// and non-hidden only, newest first.
func (mdb *MongodbRepo) ListPublicByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]*Message, error) {
	return mdb.listMessages(ctx, bson.M{"receiverId": receiverID, "hidden": false})
}

func (mdb *MongodbRepo) updateMessage(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updatedAt"] = time.Now()
	res, err := mdb.collection(MessagesColName).
		UpdateOne(ctx, notDeleted(bson.M{"_id": id}), bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update message: %v", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (mdb *MongodbRepo) SetMessageHidden(ctx context.Context, id primitive.ObjectID, hidden bool) error {
	return mdb.updateMessage(ctx, id, bson.M{"hidden": hidden})
}

func (mdb *MongodbRepo) SoftDeleteMessage(ctx context.Context, id primitive.ObjectID) error {
	return mdb.updateMessage(ctx, id, bson.M{"isDeleted": true})
}
