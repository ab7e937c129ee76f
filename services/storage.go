package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"lizze-booking-server/config"
)

// Logical upload buckets. Payment proofs come from customers at submit time,
// verification slips from staff during review.
const (
	FolderPaymentProofs     = "payment_proofs"
	FolderVerificationSlips = "verification_slips"
)

// StoredFile is the handle returned for an uploaded image.
type StoredFile struct {
	PublicID string
	URL      string
}

// FileStorage persists uploaded images and serves them back by URL.
type FileStorage interface {
	Store(ctx context.Context, file multipart.File, filename, folder string) (*StoredFile, error)
}

// ValidateImageFile validates mimetype (by extension) and size (<= 5MB)
func ValidateImageFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > 5*1024*1024 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

// UnconfiguredStorage rejects uploads with a clear error. Installed when no
// storage backend is configured so the rest of the workflow still runs.
type UnconfiguredStorage struct{}

func (UnconfiguredStorage) Store(_ context.Context, _ multipart.File, _, _ string) (*StoredFile, error) {
	return nil, fmt.Errorf("file storage is not configured")
}

// CloudinaryStorage stores images in Cloudinary.
type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage builds a CloudinaryStorage from configuration.
func NewCloudinaryStorage(cfg config.CloudinaryConfig) (*CloudinaryStorage, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary is not configured: set CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET")
	}

	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s", cfg.APIKey, cfg.APISecret, cfg.CloudName)
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld}, nil
}

func (s *CloudinaryStorage) Store(ctx context.Context, file multipart.File, filename, folder string) (*StoredFile, error) {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	publicID := fmt.Sprintf("%s_%d", base, time.Now().UnixNano())

	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   folder,
		PublicID: publicID,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	return &StoredFile{PublicID: res.PublicID, URL: res.SecureURL}, nil
}
