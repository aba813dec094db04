package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/platewise/recipe-catalog/backend/config"
)

// S3ImageStore stores recipe images in an S3 bucket. The object key doubles
// as the asset id handed back to callers.
type S3ImageStore struct {
	s3Config *config.S3Config
}

// NewS3ImageStore creates an image store over the given S3 configuration.
func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

// Upload reads the image and puts it under the given folder with a unique
// name, returning the public URL and the object key as the asset id.
func (s *S3ImageStore) Upload(ctx context.Context, r io.Reader, folder string) (*ImageUpload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	key := fmt.Sprintf("%s/%s.png", folder, uuid.New().String())

	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[ImageStore] uploaded image to S3: %s", publicURL)

	return &ImageUpload{URL: publicURL, AssetID: key}, nil
}

// Delete removes the asset from the bucket.
func (s *S3ImageStore) Delete(ctx context.Context, assetID string) error {
	if assetID == "" {
		return nil
	}
	_, err := s.s3Config.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(assetID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	log.Printf("[ImageStore] deleted image asset: %s", assetID)
	return nil
}
