package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/sarahah/internal/helpers"
	"github.com/joshua-takyi/sarahah/internal/middleware"
	"github.com/joshua-takyi/sarahah/internal/models"
	"github.com/joshua-takyi/sarahah/internal/services"
)

type registerRequest struct {
	FirstName       string `json:"firstName" binding:"required,alphanum,min=3,max=30"`
	LastName        string `json:"lastName" binding:"required,alphanum,min=3,max=30"`
	Age             int    `json:"age" binding:"required,min=13,max=120"`
	Gender          string `json:"gender" binding:"omitempty,oneof=female male"`
	PhoneNumber     string `json:"phoneNumber" binding:"required,numeric,len=11"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8,max=30"`
	ConfirmPassword string `json:"confirmPassword" binding:"omitempty,eqfield=Password"`
}

func Register(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if !bindJSON(c, &req) {
			return
		}
		if !helpers.IsPasswordStrong(req.Password) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(
				"Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"))
			return
		}

		err := a.SignUp(c.Request.Context(), services.SignUpInput{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Age:         req.Age,
			Gender:      req.Gender,
			PhoneNumber: req.PhoneNumber,
			Email:       normalizeEmail(req.Email),
			Password:    req.Password,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse("User created successfully", nil))
	}
}

type confirmEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,numeric,len=6"`
}

func ConfirmEmail(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req confirmEmailRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := a.ConfirmEmail(c.Request.Context(), normalizeEmail(req.Email), req.OTP); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("Email confirmed successfully", nil))
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Login(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if !bindJSON(c, &req) {
			return
		}
		pair, err := a.Login(c.Request.Context(), normalizeEmail(req.Email), req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("User signed in successfully", pair))
	}
}

type googleAuthRequest struct {
	Credential string `json:"credential" binding:"required"`
}

func GoogleAuth(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req googleAuthRequest
		if !bindJSON(c, &req) {
			return
		}
		pair, err := a.GoogleAuth(c.Request.Context(), req.Credential)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("User signed in successfully", pair))
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshtoken" binding:"required"`
}

func RefreshToken(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		if !bindJSON(c, &req) {
			return
		}
		access, err := a.Refresh(c.Request.Context(), req.RefreshToken)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("New access token generated successfully", gin.H{"accesstoken": access}))
	}
}

func Logout(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := middleware.CurrentToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("Unauthorized"))
			return
		}
		if err := a.Logout(c.Request.Context(), token.JTI, token.ExpiresAt); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("User logged out successfully", nil))
	}
}

type requestResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func RequestPasswordReset(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requestResetRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := a.RequestPasswordReset(c.Request.Context(), normalizeEmail(req.Email)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("If your email is registered, you will receive a password reset code", nil))
	}
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,numeric,len=6"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=30"`
}

func ResetPassword(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resetPasswordRequest
		if !bindJSON(c, &req) {
			return
		}
		if !helpers.IsPasswordStrong(req.NewPassword) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(
				"Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"))
			return
		}
		if err := a.ResetPassword(c.Request.Context(), normalizeEmail(req.Email), req.OTP, req.NewPassword); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("Password reset successfully", nil))
	}
}
