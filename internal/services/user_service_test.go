package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joshua-takyi/sarahah/internal/models"
)

type userFixture struct {
	svc    *UserService
	users  *fakeUserRepo
	images *fakeImages
	owner  *models.User
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := &userFixture{
		users:  newFakeUserRepo(),
		images: &fakeImages{},
	}
	cipher := testCipher(t)
	encrypted, err := cipher.Encrypt("02345678901")
	require.NoError(t, err)

	f.owner = f.users.add(&models.User{
		FirstName:    "Adwoa",
		LastName:     "Safo",
		Age:          28,
		Gender:       models.GenderFemale,
		PhoneNumber:  encrypted,
		Bio:          "software engineer",
		Email:        "adwoa@example.com",
		IsConfirmed:  true,
		HiddenFields: models.DefaultHiddenFields(),
		AuthProvider: models.AuthProviderEmail,
	})
	f.svc = NewUserService(f.users, cipher, f.images)
	return f
}

func TestGetProfileDecryptsPhone(t *testing.T) {
	f := newUserFixture(t)

	user, err := f.svc.GetProfile(context.Background(), f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "02345678901", user.PhoneNumber)
	// Owner view ignores the hidden-field filter.
	assert.Equal(t, "adwoa@example.com", user.Email)
}

func TestGetProfileUnknownUser(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.GetProfile(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfileReencryptsPhone(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	updated, err := f.svc.UpdateProfile(ctx, f.owner.ID, UpdateProfileInput{
		PhoneNumber: "09876543210",
		Bio:         "updated bio",
	})
	require.NoError(t, err)
	assert.Equal(t, "updated bio", updated.Bio)
	// Stored value is ciphertext, not the raw number.
	assert.NotEqual(t, "09876543210", updated.PhoneNumber)

	user, err := f.svc.GetProfile(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "09876543210", user.PhoneNumber)
}

func TestUpdateProfileNothingToUpdate(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.UpdateProfile(context.Background(), f.owner.ID, UpdateProfileInput{})
	assert.ErrorIs(t, err, ErrNothingToUpdate)
}

func TestUpdateProfilePartial(t *testing.T) {
	f := newUserFixture(t)

	updated, err := f.svc.UpdateProfile(context.Background(), f.owner.ID, UpdateProfileInput{
		FirstName: "Akosua",
	})
	require.NoError(t, err)
	assert.Equal(t, "Akosua", updated.FirstName)
	assert.Equal(t, "Safo", updated.LastName)
	assert.Equal(t, 28, updated.Age)
}

func TestToggleFieldVisibilityPersists(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	fields, err := f.svc.ToggleFieldVisibility(ctx, f.owner.ID, models.FieldAge)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{models.FieldEmail, models.FieldPhoneNumber, models.FieldAge}, fields)

	fields, err = f.svc.ToggleFieldVisibility(ctx, f.owner.ID, models.FieldAge)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{models.FieldEmail, models.FieldPhoneNumber}, fields)

	stored := f.users.get(f.owner.ID)
	assert.ElementsMatch(t, []string{models.FieldEmail, models.FieldPhoneNumber}, stored.HiddenFields)
}

func TestToggleFieldVisibilityInvalidField(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.ToggleFieldVisibility(context.Background(), f.owner.ID, "password")
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestGetPublicProfileAppliesHiddenFields(t *testing.T) {
	f := newUserFixture(t)

	profile, err := f.svc.GetPublicProfile(context.Background(), f.owner.ID)
	require.NoError(t, err)
	assert.NotContains(t, profile, "email")
	assert.NotContains(t, profile, "phoneNumber")
	assert.Equal(t, "Adwoa", profile["firstName"])
	assert.Equal(t, 28, profile["age"])
}

func TestGetPublicProfileDecryptsVisiblePhone(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.svc.ToggleFieldVisibility(ctx, f.owner.ID, models.FieldPhoneNumber)
	require.NoError(t, err)

	profile, err := f.svc.GetPublicProfile(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "02345678901", profile["phoneNumber"])
}

func TestSearchByExactEmail(t *testing.T) {
	f := newUserFixture(t)

	results, err := f.svc.Search(context.Background(), "adwoa@example.com")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, f.owner.ID, results[0].ID)

	// Email queries match exactly, not by prefix.
	results, err = f.svc.Search(context.Background(), "adwoa@example.co")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchByName(t *testing.T) {
	f := newUserFixture(t)

	results, err := f.svc.Search(context.Background(), "Adwoa")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, f.owner.ID, results[0].ID)
}

func TestSearchEmptyQuery(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.Search(context.Background(), "   ")
	assert.Error(t, err)
}

func TestUploadProfileImage(t *testing.T) {
	f := newUserFixture(t)

	image, err := f.svc.UploadProfileImage(context.Background(), f.owner.ID, "avatar.png")
	require.NoError(t, err)
	assert.NotEmpty(t, image.SecureURL)
	assert.NotEmpty(t, image.PublicID)

	stored := f.users.get(f.owner.ID)
	require.NotNil(t, stored.ProfileImage)
	assert.Equal(t, image.PublicID, stored.ProfileImage.PublicID)
}

func TestUploadProfileImageDestroysAssetWhenSaveFails(t *testing.T) {
	f := newUserFixture(t)

	// Persisting fails because the user does not exist; the uploaded
	// asset must be removed from the CDN.
	_, err := f.svc.UploadProfileImage(context.Background(), primitive.NewObjectID(), "avatar.png")
	assert.ErrorIs(t, err, ErrUserNotFound)
	require.Len(t, f.images.uploaded, 1)
	require.Len(t, f.images.destroyed, 1)
	assert.Contains(t, f.images.destroyed[0], "avatar.png")
}

func TestDeleteProfileImage(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	image, err := f.svc.UploadProfileImage(ctx, f.owner.ID, "avatar.png")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteProfileImage(ctx, f.owner.ID))
	assert.Equal(t, []string{image.PublicID}, f.images.destroyed)
	assert.Nil(t, f.users.get(f.owner.ID).ProfileImage)

	// Nothing left to delete.
	assert.ErrorIs(t, f.svc.DeleteProfileImage(ctx, f.owner.ID), ErrNoProfileImage)
}
