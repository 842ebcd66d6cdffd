package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joshua-takyi/sarahah/internal/helpers"
	"github.com/joshua-takyi/sarahah/internal/models"
)

// Context keys populated by AuthMiddleware.
const (
	ContextUserKey  = "user"
	ContextTokenKey = "token"
)

// TokenMeta is what logout needs from the presented access token.
type TokenMeta struct {
	JTI       string
	ExpiresAt time.Time
}

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}
		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", latency,
			"client_ip", c.ClientIP(),
		)

		// Internal failures are recorded on the context by handlers;
		// details are logged here, never returned to the client.
		for _, err := range c.Errors {
			logger.Error("Request error",
				"request_id", requestID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err.Error(),
			)
		}
	}
}

// UserFinder loads the authenticated user; soft-deleted accounts read
// as not found.
type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// TokenChecker consults the revocation list.
type TokenChecker interface {
	IsTokenBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware validates the Bearer access token, rejects revoked
// jtis and attaches the user plus token metadata to the context.
func AuthMiddleware(accessSecret string, users UserFinder, tokens TokenChecker, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("Missing Access Token"))
			return
		}

		claims, err := helpers.VerifyToken(parts[1], accessSecret)
		if err != nil || claims.ID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("Invalid Token"))
			return
		}

		blacklisted, err := tokens.IsTokenBlacklisted(c.Request.Context(), claims.ID)
		if err != nil {
			logger.Error("Blacklist lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("Invalid Token"))
			return
		}
		if blacklisted {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("Invalid Token"))
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("Invalid Token"))
			return
		}
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, models.ErrorResponse("User not found"))
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKey, TokenMeta{
			JTI:       claims.ID,
			ExpiresAt: claims.ExpiresAt.Time,
		})
		c.Next()
	}
}

// CurrentUser pulls the authenticated user out of the gin context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}

// CurrentToken pulls the access-token metadata out of the gin context.
func CurrentToken(c *gin.Context) (TokenMeta, bool) {
	val, exists := c.Get(ContextTokenKey)
	if !exists {
		return TokenMeta{}, false
	}
	meta, ok := val.(TokenMeta)
	return meta, ok
}
