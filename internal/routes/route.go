package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/sarahah/internal/container"
	"github.com/joshua-takyi/sarahah/internal/handlers"
	"github.com/joshua-takyi/sarahah/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(c *container.Container) *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     c.Config.CORSWhitelist,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Authorization"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(c.Logger))
	r.Use(gin.Recovery())

	// Rate limit tiers, most permissive first.
	generalLimiter := middleware.RateLimit(c.RedisClient, c.Logger, "general", 100, 15*time.Minute)
	authLimiter := middleware.RateLimit(c.RedisClient, c.Logger, "auth", 10, 15*time.Minute)
	sendLimiter := middleware.RateLimit(c.RedisClient, c.Logger, "send", 5, time.Minute)

	r.Use(generalLimiter)

	authRequired := middleware.AuthMiddleware(c.Config.JWTAccessSecret, c.Repo, c.Repo, c.Logger)

	r.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"message": "Sarahah API is running"})
	})

	auth := r.Group("/api/auth")
	auth.Use(authLimiter)
	{
		auth.POST("/register", handlers.Register(c.AuthService))
		auth.POST("/confirm-email", handlers.ConfirmEmail(c.AuthService))
		auth.POST("/login", handlers.Login(c.AuthService))
		auth.POST("/google-auth", handlers.GoogleAuth(c.AuthService))
		auth.POST("/refresh-token", handlers.RefreshToken(c.AuthService))
		auth.POST("/logout", authRequired, handlers.Logout(c.AuthService))
		auth.POST("/request-password-reset", handlers.RequestPasswordReset(c.AuthService))
		auth.POST("/reset-password", handlers.ResetPassword(c.AuthService))
	}

	users := r.Group("/api/users")
	{
		users.GET("/me", authRequired, handlers.GetProfile(c.UserService))
		users.GET("/all", authRequired, handlers.SearchUsers(c.UserService))
		users.PATCH("/me/updateprofile", authRequired, handlers.UpdateProfile(c.UserService))
		users.POST("/me/upload-profile", authRequired, handlers.UploadProfileImage(c.UserService))
		users.DELETE("/me/delete-profile-image", authRequired, handlers.DeleteProfileImage(c.UserService))
		users.PATCH("/me/toggle-field-visibility", authRequired, handlers.ToggleFieldVisibility(c.UserService))
		users.GET("/:userId", handlers.GetUserByID(c.UserService))
	}

	messages := r.Group("/api/messages")
	{
		messages.GET("/inbox", authRequired, handlers.Inbox(c.MessageService))
		messages.GET("/public/:userId", handlers.PublicMessages(c.MessageService))
		messages.PATCH("/toggle-visibility/:messageId", authRequired, handlers.ToggleMessageVisibility(c.MessageService))
		messages.DELETE("/delete/:messageId", authRequired, handlers.DeleteMessage(c.MessageService))
		messages.POST("/send/:receiverId", sendLimiter, handlers.SendMessage(c.MessageService))
	}

	return r
}
