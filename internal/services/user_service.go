package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joshua-takyi/sarahah/internal/helpers"
	"github.com/joshua-takyi/sarahah/internal/models"
)

// ImageStore is the CDN abstraction the profile-image operations use.
type ImageStore interface {
	Upload(ctx context.Context, filePath, folder string) (*helpers.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

type UserService struct {
	users  models.UserRepo
	cipher *helpers.Cipher
	images ImageStore
}

func NewUserService(users models.UserRepo, cipher *helpers.Cipher, images ImageStore) *UserService {
	return &UserService{
		users:  users,
		cipher: cipher,
		images: images,
	}
}

// GetProfile is the owner view: the hidden-field filter does not apply,
// but the phone number still comes back decrypted.
func (us *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := us.users.FindByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.PhoneNumber != "" {
		plain, err := us.cipher.Decrypt(user.PhoneNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt phone number: %v", err)
		}
		user.PhoneNumber = plain
	}
	return user, nil
}

type UpdateProfileInput struct {
	FirstName   string
	LastName    string
	Age         int
	Gender      string
	PhoneNumber string
	Bio         string
}

func (us *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (*models.User, error) {
	update := bson.M{}
	if input.FirstName != "" {
		update["firstName"] = input.FirstName
	}
	if input.LastName != "" {
		update["lastName"] = input.LastName
	}
	if input.Age != 0 {
		update["age"] = input.Age
	}
	if input.Gender != "" {
		update["gender"] = input.Gender
	}
	if input.PhoneNumber != "" {
		encrypted, err := us.cipher.Encrypt(input.PhoneNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt phone number: %v", err)
		}
		update["phoneNumber"] = encrypted
	}
	if input.Bio != "" {
		update["bio"] = input.Bio
	}
	if len(update) == 0 {
		return nil, ErrNothingToUpdate
	}

	user, err := us.users.UpdateProfile(ctx, userID, update)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ToggleFieldVisibility flips one field in the owner's hidden set and
// returns the resulting set.
func (us *UserService) ToggleFieldVisibility(ctx context.Context, userID primitive.ObjectID, field string) ([]string, error) {
	user, err := us.users.FindByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := user.ToggleHiddenField(field); err != nil {
		return nil, ErrInvalidField
	}
	if err := us.users.SetHiddenFields(ctx, userID, user.HiddenFields); err != nil {
		return nil, err
	}
	return user.HiddenFields, nil
}

// Search looks up users by exact email or fuzzy name. An email query
// only ever matches exactly, so the directory cannot be scraped by
// email prefix.
func (us *UserService) Search(ctx context.Context, search string) ([]*models.User, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil, fmt.Errorf("missing search query")
	}
	if models.Validate.Var(search, "email") == nil {
		return us.users.SearchByEmail(ctx, strings.ToLower(search))
	}
	terms := strings.Fields(search)
	return us.users.SearchByName(ctx, terms)
}

// GetPublicProfile is the unauthenticated view of a user, with hidden
// fields stripped before the phone number is decrypted.
func (us *UserService) GetPublicProfile(ctx context.Context, userID primitive.ObjectID) (map[string]interface{}, error) {
	user, err := us.users.FindByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user.PublicProfile(us.cipher.Decrypt)
}

func (us *UserService) UploadProfileImage(ctx context.Context, userID primitive.ObjectID, filePath string) (*models.ProfileImage, error) {
	result, err := us.images.Upload(ctx, filePath, helpers.ProfileFolder)
	if err != nil {
		return nil, err
	}
	image := &models.ProfileImage{SecureURL: result.SecureURL, PublicID: result.PublicID}
	if err := us.users.SetProfileImage(ctx, userID, image); err != nil {
		// The asset was already uploaded; remove it so a failed save
		// does not leave it orphaned in the CDN.
		_ = us.images.Destroy(ctx, result.PublicID)
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return image, nil
}

func (us *UserService) DeleteProfileImage(ctx context.Context, userID primitive.ObjectID) error {
	user, err := us.users.FindByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if user.ProfileImage == nil || user.ProfileImage.PublicID == "" {
		return ErrNoProfileImage
	}
	if err := us.images.Destroy(ctx, user.ProfileImage.PublicID); err != nil {
		return err
	}
	return us.users.RemoveProfileImage(ctx, userID)
}
