package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joshua-takyi/sarahah/internal/middleware"
	"github.com/joshua-takyi/sarahah/internal/models"
	"github.com/joshua-takyi/sarahah/internal/services"
)

// MaxProfileImageSize bounds multipart profile uploads.
const MaxProfileImageSize = 1 << 20 // 1MB

var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

func GetProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("Unauthorized"))
			return
		}
		profile, err := u.GetProfile(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("User profile fetched successfully", profile))
	}
}

type updateProfileRequest struct {
	FirstName   string `json:"firstName" binding:"omitempty,alphanum,min=3,max=30"`
	LastName    string `json:"lastName" binding:"omitempty,alphanum,min=3,max=30"`
	Age         int    `json:"age" binding:"omitempty,min=13,max=120"`
	Gender      string `json:"gender" binding:"omitempty,oneof=female male"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,numeric,len=11"`
	Bio         string `json:"bio" binding:"omitempty,max=250"`
}

func UpdateProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("Unauthorized"))
			return
		}
		var req updateProfileRequest
		if !bindJSON(c, &req) {
			return
		}
		_, err := u.UpdateProfile(c.Request.Context(), user.ID, services.UpdateProfileInput{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Age:         req.Age,
			Gender:      req.Gender,
			PhoneNumber: req.PhoneNumber,
			Bio:         req.Bio,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("User updated successfully", nil))
	}
}

type toggleFieldRequest struct {
	Field string `json:"field" binding:"required"`
}

func ToggleFieldVisibility(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("Unauthorized"))
			return
		}
		var req toggleFieldRequest
		if !bindJSON(c, &req) {
			return
		}
		hidden, err := u.ToggleFieldVisibility(c.Request.Context(), user.ID, req.Field)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("Field visibility toggled", gin.H{"hiddenFields": hidden}))
	}
}

func SearchUsers(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := strings.TrimSpace(c.Query("search"))
		if search == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Missing search query"))
			return
		}
		users, err := u.Search(c.Request.Context(), search)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("Users fetched successfully", users))
	}
}

// GetUserByID is the public, hidden-field-filtered profile view.
func GetUserByID(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid user ID"))
			return
		}
		profile, err := u.GetPublicProfile(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("User fetched successfully", profile))
	}
}

// UploadProfileImage accepts a single multipart "profile" file, spools
// it to a temp file and hands it to the CDN store, which removes the
// temp file whether or not the upload succeeds.
func UploadProfileImage(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("Unauthorized"))
			return
		}

		file, err := c.FormFile("profile")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Profile image file is required"))
			return
		}
		if file.Size > MaxProfileImageSize {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("File size is too large, Max file size is 1MB"))
			return
		}
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedImageExtensions[ext] {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid file extension"))
			return
		}
		if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid file type"))
			return
		}

		tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("profile-%s-%s%s", user.ID.Hex(), primitive.NewObjectID().Hex(), ext))
		if err := c.SaveUploadedFile(file, tmpPath); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("Internal Server Error"))
			return
		}

		image, err := u.UploadProfileImage(c.Request.Context(), user.ID, tmpPath)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("Profile image uploaded successfully", image))
	}
}

func DeleteProfileImage(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("Unauthorized"))
			return
		}
		if err := u.DeleteProfileImage(c.Request.Context(), user.ID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse("Profile image removed successfully", nil))
	}
}
