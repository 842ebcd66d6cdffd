package services

import "errors"

// Sentinel errors handlers translate into HTTP statuses. Messages are
// the exact client-facing strings.
var (
	ErrEmailExists            = errors.New("Email already exists")
	ErrInvalidCredentials     = errors.New("Invalid credentials")
	ErrEmailNotConfirmed      = errors.New("Please confirm your email before logging in")
	ErrInvalidOTP             = errors.New("Invalid OTP")
	ErrNoResetRequested       = errors.New("Invalid email or no password reset requested")
	ErrUserNotFound           = errors.New("User not found")
	ErrReceiverNotFound       = errors.New("Receiver not found")
	ErrMessageNotFound        = errors.New("Message not found")
	ErrInvalidField           = errors.New("Invalid field name")
	ErrGoogleProvider         = errors.New("Please log in using google")
	ErrEmailNotVerified       = errors.New("Google email not verified")
	ErrInvalidToken           = errors.New("Invalid or expired refresh token")
	ErrUserInvalidOrConfirmed = errors.New("User invalid or already confirmed")
	ErrInvalidGoogleToken     = errors.New("Invalid Google credential")
	ErrNoProfileImage         = errors.New("No profile image to delete")
	ErrNothingToUpdate        = errors.New("No data provided for update")
)
