package services

import (
	"fmt"
	"mime/multipart"
	"sync"
)

// MockImageService implements ImageService for testing without S3
type MockImageService struct {
	mu       sync.Mutex
	uploads  []string
	deletes  []string
	counter  int

	// UploadError, when set, is returned from UploadImage
	UploadError error
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{}
}

// UploadImage records the upload and returns a deterministic fake key
func (m *MockImageService) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if m.UploadError != nil {
		return "", m.UploadError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	key := fmt.Sprintf("menu/mock_%d_%s", m.counter, fileHeader.Filename)
	m.uploads = append(m.uploads, key)
	return key, nil
}

// GetImageURL returns a fake URL derived from the key
func (m *MockImageService) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}
	return "https://mock-bucket.example.com/" + imageKey, nil
}

// DeleteImage records the deletion
func (m *MockImageService) DeleteImage(imageKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, imageKey)
	return nil
}

// Uploads returns the keys of all recorded uploads
func (m *MockImageService) Uploads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.uploads))
	copy(out, m.uploads)
	return out
}

// Deletes returns the keys of all recorded deletions
func (m *MockImageService) Deletes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.deletes))
	copy(out, m.deletes)
	return out
}
