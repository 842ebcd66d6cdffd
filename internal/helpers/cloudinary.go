package helpers

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadResult is what callers persist after a successful CDN upload.
type UploadResult struct {
	SecureURL string
	PublicID  string
}

// CloudinaryStore uploads profile images to Cloudinary. Local temp files
// are removed once the upload finishes, whether it succeeded or not.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cld *cloudinary.Cloudinary) *CloudinaryStore {
	return &CloudinaryStore{cld: cld}
}

func (s *CloudinaryStore) Upload(ctx context.Context, filePath, folder string) (*UploadResult, error) {
	defer os.Remove(filePath)

	res, err := s.cld.Upload.Upload(ctx, filePath, uploader.UploadParams{
		Folder:         folder,
		UniqueFilename: api.Bool(false),
		UseFilename:    api.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %v", err)
	}
	return &UploadResult{SecureURL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete image: %v", err)
	}
	return nil
}
