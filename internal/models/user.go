package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AuthProviderEmail  = "email"
	AuthProviderGoogle = "google"

	GenderFemale = "female"
	GenderMale   = "male"

	MinAge        = 13
	MaxAge        = 120
	MaxBioLength  = 250
	MinNameLength = 3
	MaxNameLength = 30
)

// Public profile fields the owner may hide from other callers.
const (
	FieldEmail       = "email"
	FieldAge         = "age"
	FieldGender      = "gender"
	FieldPhoneNumber = "phoneNumber"
)

// PublicFields enumerates every hideable profile attribute.
var PublicFields = []string{FieldEmail, FieldAge, FieldGender, FieldPhoneNumber}

func IsPublicField(field string) bool {
	for _, f := range PublicFields {
		if f == field {
			return true
		}
	}
	return false
}

// DefaultHiddenFields is what new accounts start with: contact details
// hidden, everything else public.
func DefaultHiddenFields() []string {
	return []string{FieldEmail, FieldPhoneNumber}
}

type ProfileImage struct {
	SecureURL string `bson:"secure_url,omitempty" json:"secure_url,omitempty"`
	PublicID  string `bson:"public_id,omitempty" json:"public_id,omitempty"`
}

// OTPs holds bcrypt hashes of pending one-time codes. Each is cleared
// as soon as it is consumed.
type OTPs struct {
	Confirmation  string `bson:"confirmation,omitempty" json:"-"`
	PasswordReset string `bson:"passwordReset,omitempty" json:"-"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FirstName    string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName     string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Age          int                `bson:"age,omitempty" json:"age,omitempty"`
	Gender       string             `bson:"gender,omitempty" json:"gender,omitempty"`
	PhoneNumber  string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"` // AES-GCM ciphertext at rest
	ProfileImage *ProfileImage      `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Email        string             `bson:"email" json:"email"`
	IsConfirmed  bool               `bson:"isConfirmed" json:"isConfirmed"`
	HiddenFields []string           `bson:"hiddenFields" json:"hiddenFields"`
	Password     string             `bson:"password" json:"-"`
	OTPs         OTPs               `bson:"otps,omitempty" json:"-"`
	GoogleID     string             `bson:"googleId,omitempty" json:"-"`
	AuthProvider string             `bson:"authProvider" json:"authProvider"`
	IsDeleted    bool               `bson:"isDeleted" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// PublicProfile projects the fixed public allowlist, drops every field
// the owner has hidden, then decrypts the phone number if it survived
// the filter. Decryption runs strictly after filtering so a hidden
// phone number is never decrypted and a visible one is never returned
// as ciphertext.
func (u *User) PublicProfile(decrypt func(string) (string, error)) (map[string]interface{}, error) {
	profile := map[string]interface{}{
		"_id":          u.ID,
		"firstName":    u.FirstName,
		"lastName":     u.LastName,
		"bio":          u.Bio,
		"profileImage": u.ProfileImage,
		"age":          u.Age,
		"gender":       u.Gender,
		"email":        u.Email,
		"phoneNumber":  u.PhoneNumber,
		"createdAt":    u.CreatedAt,
	}
	for _, field := range u.HiddenFields {
		delete(profile, field)
	}
	if phone, ok := profile["phoneNumber"].(string); ok && phone != "" {
		plain, err := decrypt(phone)
		if err != nil {
			return nil, err
		}
		profile["phoneNumber"] = plain
	}
	return profile, nil
}

// ToggleHiddenField flips the visibility of one public field: hidden
// becomes visible, visible becomes hidden. Repeated calls alternate.
func (u *User) ToggleHiddenField(field string) error {
	if !IsPublicField(field) {
		return fmt.Errorf("invalid field name: %s", field)
	}
	for i, f := range u.HiddenFields {
		if f == field {
			u.HiddenFields = append(u.HiddenFields[:i], u.HiddenFields[i+1:]...)
			return nil
		}
	}
	u.HiddenFields = append(u.HiddenFields, field)
	return nil
}
