package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/reportaxial/reportaxial-api/config"
	"github.com/reportaxial/reportaxial-api/utils"
)

// AttachmentService stores problem attachments (product photos, delivery
// documents) and serves them back through short-lived URLs.
type AttachmentService interface {
	// UploadAttachment stores the file under the problem's key space and
	// returns the storage key.
	UploadAttachment(problemID uint, fileHeader *multipart.FileHeader) (string, error)

	// GetAttachmentURL generates a presigned URL for an attachment key.
	GetAttachmentURL(key string) (string, error)

	// DeleteAttachment removes an attachment from storage.
	DeleteAttachment(key string) error
}

// S3AttachmentService implements AttachmentService on AWS S3
type S3AttachmentService struct {
	client *s3.Client
	bucket string
}

var attachmentServiceInstance AttachmentService

// InitAttachmentService initializes the S3-backed attachment service
func InitAttachmentService(cfg *appconfig.Config) (AttachmentService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	attachmentServiceInstance = &S3AttachmentService{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.AWSS3Bucket,
	}

	return attachmentServiceInstance, nil
}

// GetAttachmentService returns the initialized attachment service instance
func GetAttachmentService() AttachmentService {
	return attachmentServiceInstance
}

// SetAttachmentService sets the attachment service instance (primarily for testing)
func SetAttachmentService(service AttachmentService) {
	attachmentServiceInstance = service
}

// UploadAttachment uploads a file to S3 under the problem's key space
func (s *S3AttachmentService) UploadAttachment(problemID uint, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			utils.GetLogger().Warn(fmt.Sprintf("failed to close file: %v", closeErr))
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	// Key format: problems/{problemID}/{timestamp}_{filename}
	key := fmt.Sprintf("problems/%d/%d_%s", problemID, time.Now().Unix(), filepath.Base(fileHeader.Filename))

	_, err = s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(utils.AttachmentContentType(fileHeader.Filename)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return key, nil
}

// GetAttachmentURL generates a presigned URL valid for 1 hour
func (s *S3AttachmentService) GetAttachmentURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}

	presignClient := s3.NewPresignClient(s.client)

	request, err := presignClient.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}

// DeleteAttachment deletes an attachment from S3
func (s *S3AttachmentService) DeleteAttachment(key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete attachment from S3: %w", err)
	}

	return nil
}
