package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxMessageLength = 500

// Message is an anonymous note left for a user. There is deliberately
// no sender field anywhere in the document.
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ReceiverID primitive.ObjectID `bson:"receiverId" json:"receiverId"`
	Content    string             `bson:"content" json:"content"`
	Hidden     bool               `bson:"hidden" json:"hidden"`
	IsDeleted  bool               `bson:"isDeleted" json:"-"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"-"`
}

// BlacklistedToken revokes a JWT by jti until its natural expiry.
// A TTL index on expirationDate lets Mongo prune stale entries.
type BlacklistedToken struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TokenID        string             `bson:"tokenId" json:"tokenId"`
	ExpirationDate time.Time          `bson:"expirationDate" json:"expirationDate"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
