package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joshua-takyi/sarahah/internal/helpers"
	"github.com/joshua-takyi/sarahah/internal/models"
)

// GoogleVerifier validates a Google-issued ID token credential.
type GoogleVerifier interface {
	Verify(ctx context.Context, credential string) (*helpers.GoogleClaims, error)
}

// TokenPair is the response body of every successful sign-in.
type TokenPair struct {
	AccessToken  string `json:"accesstoken"`
	RefreshToken string `json:"refreshtoken"`
}

type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	BcryptCost    int
}

type AuthService struct {
	users  models.UserRepo
	tokens models.TokenRepo
	cipher *helpers.Cipher
	mailer Mailer
	google GoogleVerifier
	logger *slog.Logger
	cfg    AuthConfig
}

func NewAuthService(
	users models.UserRepo,
	tokens models.TokenRepo,
	cipher *helpers.Cipher,
	mailer Mailer,
	google GoogleVerifier,
	logger *slog.Logger,
	cfg AuthConfig,
) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		cipher: cipher,
		mailer: mailer,
		google: google,
		logger: logger,
		cfg:    cfg,
	}
}

type SignUpInput struct {
	FirstName   string
	LastName    string
	Age         int
	Gender      string
	PhoneNumber string
	Email       string
	Password    string
}

func (as *AuthService) SignUp(ctx context.Context, input SignUpInput) error {
	_, err := as.users.FindByEmail(ctx, input.Email)
	if err == nil {
		return ErrEmailExists
	}
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	encryptedPhone, err := as.cipher.Encrypt(input.PhoneNumber)
	if err != nil {
		return fmt.Errorf("failed to encrypt phone number: %v", err)
	}
	passwordHash, err := helpers.HashSecret(input.Password, as.cfg.BcryptCost)
	if err != nil {
		return err
	}
	otp, err := helpers.GenerateOTP()
	if err != nil {
		return err
	}
	otpHash, err := helpers.HashSecret(otp, as.cfg.BcryptCost)
	if err != nil {
		return err
	}

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Age:          input.Age,
		Gender:       input.Gender,
		PhoneNumber:  encryptedPhone,
		Email:        input.Email,
		Password:     passwordHash,
		OTPs:         models.OTPs{Confirmation: otpHash},
		HiddenFields: models.DefaultHiddenFields(),
		AuthProvider: models.AuthProviderEmail,
	}
	// The email lookup above is not atomic with the insert; the unique
	// index is the real guard, so a losing racer still gets the same
	// error as an up-front duplicate.
	if err := as.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			return ErrEmailExists
		}
		return err
	}

	as.sendMailAsync(user.Email, "Confirmation Email", confirmationEmailBody(user.FullName(), otp))
	return nil
}

func (as *AuthService) ConfirmEmail(ctx context.Context, email, otp string) error {
	user, err := as.users.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return ErrUserInvalidOrConfirmed
	}
	if err != nil {
		return err
	}
	if user.IsConfirmed {
		return ErrUserInvalidOrConfirmed
	}
	if user.OTPs.Confirmation == "" || !helpers.CompareSecret(otp, user.OTPs.Confirmation) {
		return ErrInvalidOTP
	}
	// Single use: confirming also clears the stored OTP hash.
	return as.users.ConfirmEmail(ctx, user.ID)
}

// Login fails with the same error for an unknown email and a wrong
// password so responses do not reveal whether an account exists.
func (as *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := as.users.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsConfirmed {
		return nil, ErrEmailNotConfirmed
	}
	if user.AuthProvider != models.AuthProviderEmail {
		return nil, ErrGoogleProvider
	}
	if !helpers.CompareSecret(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return as.issueTokenPair(user)
}

func (as *AuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	return as.tokens.BlacklistToken(ctx, jti, expiresAt)
}

// Refresh issues a new access token from a valid refresh token. The
// refresh token itself is not rotated; it stays usable until expiry.
func (as *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := helpers.VerifyToken(refreshToken, as.cfg.RefreshSecret)
	if err != nil {
		return "", ErrInvalidToken
	}
	return helpers.SignToken(claims.UserID, claims.Email, as.cfg.AccessSecret, as.cfg.AccessTTL)
}

// RequestPasswordReset responds identically whether or not the email
// belongs to an eligible account.
func (as *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := as.users.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if user.AuthProvider != models.AuthProviderEmail || !user.IsConfirmed {
		return nil
	}

	otp, err := helpers.GenerateOTP()
	if err != nil {
		return err
	}
	otpHash, err := helpers.HashSecret(otp, as.cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := as.users.SetPasswordResetOTP(ctx, user.ID, otpHash); err != nil {
		return err
	}

	as.sendMailAsync(user.Email, "Password Reset Request", passwordResetEmailBody(user.FullName(), otp))
	return nil
}

func (as *AuthService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	user, err := as.users.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return ErrNoResetRequested
	}
	if err != nil {
		return err
	}
	if user.OTPs.PasswordReset == "" {
		return ErrNoResetRequested
	}
	if !helpers.CompareSecret(otp, user.OTPs.PasswordReset) {
		return ErrInvalidOTP
	}
	passwordHash, err := helpers.HashSecret(newPassword, as.cfg.BcryptCost)
	if err != nil {
		return err
	}
	// Clears otps.passwordReset along with the password swap.
	return as.users.ResetPassword(ctx, user.ID, passwordHash)
}

func (as *AuthService) GoogleAuth(ctx context.Context, credential string) (*TokenPair, error) {
	claims, err := as.google.Verify(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}
	if !claims.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	user, err := as.users.FindByGoogleID(ctx, claims.Subject)
	if errors.Is(err, models.ErrNotFound) {
		// First Google sign-in: auto-confirmed account with an
		// unusable random password.
		placeholder, err := helpers.RandomPassword()
		if err != nil {
			return nil, err
		}
		passwordHash, err := helpers.HashSecret(placeholder, as.cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
		user = &models.User{
			FirstName:    claims.GivenName,
			LastName:     claims.FamilyName,
			Email:        claims.Email,
			GoogleID:     claims.Subject,
			IsConfirmed:  true,
			AuthProvider: models.AuthProviderGoogle,
			Password:     passwordHash,
			HiddenFields: models.DefaultHiddenFields(),
		}
		if err := as.users.CreateUser(ctx, user); err != nil {
			if errors.Is(err, models.ErrDuplicateEmail) {
				return nil, ErrEmailExists
			}
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else if user.Email != claims.Email {
		if err := as.users.UpdateEmail(ctx, user.ID, claims.Email); err != nil {
			return nil, err
		}
		user.Email = claims.Email
	}

	return as.issueTokenPair(user)
}

func (as *AuthService) issueTokenPair(user *models.User) (*TokenPair, error) {
	access, err := helpers.SignToken(user.ID.Hex(), user.Email, as.cfg.AccessSecret, as.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := helpers.SignToken(user.ID.Hex(), user.Email, as.cfg.RefreshSecret, as.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// sendMailAsync delivers email without blocking or failing the request
// that triggered it.
func (as *AuthService) sendMailAsync(to, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := as.mailer.Send(ctx, to, subject, body); err != nil {
			as.logger.Error("Failed to send email", "to", to, "subject", subject, "error", err)
		}
	}()
}
