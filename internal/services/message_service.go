package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joshua-takyi/sarahah/internal/models"
)

type MessageService struct {
	messages models.MessageRepo
	users    models.UserRepo
}

func NewMessageService(messages models.MessageRepo, users models.UserRepo) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
	}
}

// Send creates an anonymous message. No sender identity is recorded,
// and the message starts hidden so only the receiver can see it.
func (ms *MessageService) Send(ctx context.Context, receiverID primitive.ObjectID, content string) (*models.Message, error) {
	_, err := ms.users.FindByID(ctx, receiverID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrReceiverNotFound
	}
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ReceiverID: receiverID,
		Content:    content,
		Hidden:     true,
	}
	if err := ms.messages.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (ms *MessageService) Inbox(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Message, error) {
	return ms.messages.ListByReceiver(ctx, ownerID)
}

func (ms *MessageService) PublicList(ctx context.Context, userID primitive.ObjectID) ([]*models.Message, error) {
	return ms.messages.ListPublicByReceiver(ctx, userID)
}

// findOwned fetches a message and verifies the caller is its receiver.
// A mismatch reads as "not found" so non-owners cannot probe for
// message existence.
func (ms *MessageService) findOwned(ctx context.Context, messageID, callerID primitive.ObjectID) (*models.Message, error) {
	msg, err := ms.messages.FindMessageByID(ctx, messageID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	if msg.ReceiverID != callerID {
		return nil, ErrMessageNotFound
	}
	return msg, nil
}

func (ms *MessageService) ToggleVisibility(ctx context.Context, messageID, callerID primitive.ObjectID) (*models.Message, error) {
	msg, err := ms.findOwned(ctx, messageID, callerID)
	if err != nil {
		return nil, err
	}
	msg.Hidden = !msg.Hidden
	if err := ms.messages.SetMessageHidden(ctx, messageID, msg.Hidden); err != nil {
		return nil, err
	}
	return msg, nil
}

func (ms *MessageService) Delete(ctx context.Context, messageID, callerID primitive.ObjectID) error {
	if _, err := ms.findOwned(ctx, messageID, callerID); err != nil {
		return err
	}
	return ms.messages.SoftDeleteMessage(ctx, messageID)
}
