package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"
)

// MockAttachmentService is an in-memory AttachmentService for tests
type MockAttachmentService struct {
	stored map[string][]byte // map of storage key to file content
	mu     sync.RWMutex
}

// NewMockAttachmentService creates a new mock attachment service
func NewMockAttachmentService() *MockAttachmentService {
	return &MockAttachmentService{
		stored: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global attachment service instance
func (m *MockAttachmentService) SetAsMockForTesting() {
	SetAttachmentService(m)
}

// UploadAttachment simulates uploading a file
func (m *MockAttachmentService) UploadAttachment(problemID uint, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("problems/%d/mock_%s", problemID, fileHeader.Filename)

	m.mu.Lock()
	m.stored[key] = content
	m.mu.Unlock()

	return key, nil
}

// GetAttachmentURL simulates generating a presigned URL
func (m *MockAttachmentService) GetAttachmentURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.stored[key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("attachment not found in mock storage: %s", key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

// DeleteAttachment simulates deleting an attachment
func (m *MockAttachmentService) DeleteAttachment(key string) error {
	if key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.stored, key)
	m.mu.Unlock()

	return nil
}

// AttachmentExists checks if an attachment exists in mock storage
func (m *MockAttachmentService) AttachmentExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.stored[key]
	return exists
}

// Clear removes all attachments from mock storage
func (m *MockAttachmentService) Clear() {
	m.mu.Lock()
	m.stored = make(map[string][]byte)
	m.mu.Unlock()
}
