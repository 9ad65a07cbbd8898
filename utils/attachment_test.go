package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAttachmentFile(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		size         int64
		expectedCode string
	}{
		{"png photo", "shattered.png", 2048, ""},
		{"jpg photo", "delivery.jpg", 2048, ""},
		{"jpeg photo", "delivery.JPEG", 2048, ""},
		{"pdf document", "delivery-note.pdf", 2048, ""},
		{"uppercase extension", "PHOTO.PNG", 2048, ""},
		{"executable", "setup.exe", 2048, "INVALID_FILE_FORMAT"},
		{"no extension", "README", 2048, "INVALID_FILE_FORMAT"},
		{"oversized file", "huge.png", MaxAttachmentSize + 1, "FILE_TOO_LARGE"},
		{"exactly at the limit", "limit.png", MaxAttachmentSize, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := &multipart.FileHeader{Filename: tt.filename, Size: tt.size}

			err := ValidateAttachmentFile(header)
			if tt.expectedCode == "" {
				assert.NoError(t, err)
				return
			}

			var attachErr *AttachmentError
			assert.ErrorAs(t, err, &attachErr)
			assert.Equal(t, tt.expectedCode, attachErr.Code)
		})
	}
}

func TestAttachmentContentType(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"photo.png", "image/png"},
		{"photo.jpg", "image/jpeg"},
		{"photo.jpeg", "image/jpeg"},
		{"note.pdf", "application/pdf"},
		{"PHOTO.JPG", "image/jpeg"},
		{"unknown.bin", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, AttachmentContentType(tt.filename))
		})
	}
}
