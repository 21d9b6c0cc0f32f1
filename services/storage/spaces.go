// Package storage wraps the S3-compatible Spaces bucket that holds uploaded
// question images for the AI solver.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// SpacesClient handles object storage operations
type SpacesClient struct {
	s3Client *s3.S3
	bucket   string
	region   string
	endpoint string
}

// SpacesConfig holds configuration for the Spaces client
type SpacesConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
}

// NewSpacesClient creates a new Spaces client
func NewSpacesClient(config SpacesConfig) (*SpacesClient, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
		Endpoint:         aws.String(config.Endpoint),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Spaces session: %w", err)
	}

	return &SpacesClient{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
		region:   config.Region,
		endpoint: config.Endpoint,
	}, nil
}

// NewSpacesClientFromEnv builds a client from the SPACES_* environment
// variables. Missing credentials fail at construction rather than on first
// upload.
func NewSpacesClientFromEnv() (*SpacesClient, error) {
	config := SpacesConfig{
		AccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SecretKey: os.Getenv("SPACES_SECRET_KEY"),
		Bucket:    os.Getenv("SPACES_BUCKET"),
		Region:    os.Getenv("SPACES_REGION"),
		Endpoint:  os.Getenv("SPACES_ENDPOINT"),
	}
	if config.Bucket == "" {
		return nil, fmt.Errorf("SPACES_BUCKET is not set")
	}
	if config.AccessKey == "" || config.SecretKey == "" {
		return nil, fmt.Errorf("SPACES_ACCESS_KEY and SPACES_SECRET_KEY are required")
	}
	return NewSpacesClient(config)
}

// QuestionImageKey builds a per-user object key for an uploaded question
// image, keeping uploads grouped by user and dated for cleanup.
func QuestionImageKey(userID uint, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".png"
	}
	return fmt.Sprintf("solver/%d/%s/%s%s", userID, time.Now().Format("2006-01-02"), uuid.New().String(), ext)
}

// UploadFile uploads an object and returns its key
func (s *SpacesClient) UploadFile(ctx context.Context, key string, data io.Reader, contentType string) error {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        aws.ReadSeekCloser(data),
		ACL:         aws.String("private"),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

// UploadBytes uploads bytes to Spaces
func (s *SpacesClient) UploadBytes(ctx context.Context, key string, data []byte, contentType string) error {
	return s.UploadFile(ctx, key, bytes.NewReader(data), contentType)
}

// DeleteFile removes an object from Spaces
func (s *SpacesClient) DeleteFile(ctx context.Context, key string) error {
	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// PresignedURL returns a time-limited download URL for an object
func (s *SpacesClient) PresignedURL(key string, expiry time.Duration) (string, error) {
	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign URL: %w", err)
	}
	return url, nil
}
