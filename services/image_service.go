package services

import (
	"fmt"
	"mime/multipart"

	"github.com/minhanh-dev/restaurant-pos-api/utils"
)

// ImageService stores menu item photos. Keys are opaque storage
// references persisted on the menu item; URLs are generated per read.
type ImageService interface {
	UploadImage(fileHeader *multipart.FileHeader) (string, error)
	GetImageURL(imageKey string) (string, error)
	DeleteImage(imageKey string) error
}

var imageServiceInstance ImageService

// InitImageService initializes the image service with an S3 backend
func InitImageService(s3Service S3Interface) ImageService {
	imageServiceInstance = &s3ImageStore{s3: s3Service}
	return imageServiceInstance
}

// GetImageService returns the image service, or nil when image storage
// is not configured
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// s3ImageStore keeps menu photos in S3 and serves them via presigned URLs
type s3ImageStore struct {
	s3 S3Interface
}

func (s *s3ImageStore) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	key, err := s.s3.UploadFile(fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload menu image: %w", err)
	}
	return key, nil
}

func (s *s3ImageStore) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.s3.GetPresignedURL(imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate menu image URL: %w", err)
	}
	return url, nil
}

func (s *s3ImageStore) DeleteImage(imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.s3.DeleteFile(imageKey); err != nil {
		return fmt.Errorf("failed to delete menu image: %w", err)
	}
	return nil
}
