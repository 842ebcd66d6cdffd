package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joshua-takyi/sarahah/internal/middleware"
	"github.com/joshua-takyi/sarahah/internal/models"
	"github.com/joshua-takyi/sarahah/internal/services"
)

type sendMessageRequest struct {
	Content string `json:"content" binding:"required,max=500"`
}

// SendMessage is the public, unauthenticated entry point. The sender
// is never identified.
func SendMessage(m *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		receiverID, err := primitive.ObjectIDFromHex(c.Param("receiverId"))
		if err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse("Receiver not found"))
			return
		}
		var req sendMessageRequest
		if !bindJSON(c, &req) {
			return
		}
		msg, err := m.Send(c.Request.Context(), receiverID, req.Content)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse("Message sent successfully", msg))
	}
}

func Inbox(m *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("Unauthorized"))
			return
		}
		messages, err := m.Inbox(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		if len(messages) == 0 {
			c.JSON(http.StatusOK, models.SuccessResponse("No messages found", nil))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("Messages fetched successfully", messages))
	}
}

func PublicMessages(m *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid User ID"))
			return
		}
		messages, err := m.PublicList(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		if len(messages) == 0 {
			c.JSON(http.StatusOK, models.SuccessResponse("No public messages found", nil))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("Public messages fetched successfully", messages))
	}
}

func ToggleMessageVisibility(m *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("Unauthorized"))
			return
		}
		messageID, err := primitive.ObjectIDFromHex(c.Param("messageId"))
		if err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse("Message not found"))
			return
		}
		msg, err := m.ToggleVisibility(c.Request.Context(), messageID, user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("Message visibility toggled successfully", msg))
	}
}

func DeleteMessage(m *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("Unauthorized"))
			return
		}
		messageID, err := primitive.ObjectIDFromHex(c.Param("messageId"))
		if err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse("Message not found"))
			return
		}
		if err := m.Delete(c.Request.Context(), messageID, user.ID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("Message deleted successfully", nil))
	}
}
