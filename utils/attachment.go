package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxAttachmentSize is 10MB in bytes
	MaxAttachmentSize = 10 * 1024 * 1024
)

// allowedAttachmentExtensions lists the file types a store may attach to a
// problem report: product photos and scanned delivery documents.
var allowedAttachmentExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".pdf":  true,
}

// AttachmentError represents an attachment validation error
type AttachmentError struct {
	Code    string
	Message string
}

func (e *AttachmentError) Error() string {
	return e.Message
}

// ValidateAttachmentFile validates the uploaded file format and size
func ValidateAttachmentFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxAttachmentSize {
		return &AttachmentError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxAttachmentSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedAttachmentExtensions[ext] {
		return &AttachmentError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only PNG, JPG and PDF files are allowed",
		}
	}

	return nil
}

// AttachmentContentType returns the Content-Type to store alongside an
// attachment, based on its file extension.
func AttachmentContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".pdf":
		return "application/pdf"
	}
	return "application/octet-stream"
}
