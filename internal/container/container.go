package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/joshua-takyi/sarahah/internal/config"
	"github.com/joshua-takyi/sarahah/internal/helpers"
	"github.com/joshua-takyi/sarahah/internal/models"
	"github.com/joshua-takyi/sarahah/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger *slog.Logger
	Config *config.Config

	MongoDBClient *mongo.Client
	RedisClient   *redis.Client

	Repo *models.MongodbRepo

	AuthService    *services.AuthService
	UserService    *services.UserService
	MessageService *services.MessageService
}

// NewContainer wires repositories and services together.
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	mongoClient *mongo.Client,
	redisClient *redis.Client,
	cld *cloudinary.Cloudinary,
) (*Container, error) {
	cipher, err := helpers.NewCipher(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}

	repo := models.MongodbNewRepo(mongoClient, cfg.MongoDBDatabase)
	mailer := services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	google := helpers.NewGoogleTokenVerifier(cfg.GoogleClientID)
	images := helpers.NewCloudinaryStore(cld)

	authService := services.NewAuthService(repo, repo, cipher, mailer, google, logger, services.AuthConfig{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.JWTAccessExpiration,
		RefreshTTL:    cfg.JWTRefreshExpiration,
		BcryptCost:    cfg.BcryptCost,
	})
	userService := services.NewUserService(repo, cipher, images)
	messageService := services.NewMessageService(repo, repo)

	return &Container{
		Logger:         logger,
		Config:         cfg,
		MongoDBClient:  mongoClient,
		RedisClient:    redisClient,
		Repo:           repo,
		AuthService:    authService,
		UserService:    userService,
		MessageService: messageService,
	}, nil
}
