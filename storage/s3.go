package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Store keeps artifacts in an S3 bucket.
type S3Store struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	presignExpiry time.Duration
}

// NewS3Store creates an S3-backed artifact store using the default AWS
// credential chain.
func NewS3Store(bucket, region string) (*S3Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket name cannot be empty")
	}
	if region == "" {
		return nil, fmt.Errorf("s3 region cannot be empty")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Store{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        bucket,
		presignExpiry: 15 * time.Minute,
	}, nil
}

// Put stores the reader's contents at the given path.
func (s *S3Store) Put(ctx context.Context, path string, reader io.Reader) error {
	key, err := objectKey(path)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   reader,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to s3: %w", err)
	}
	return nil
}

// Get retrieves the artifact at the given path.
func (s *S3Store) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	key, err := objectKey(path)
	if err != nil {
		return nil, err
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to download from s3: %w", err)
	}
	return result.Body, nil
}

// Remove deletes the artifact at the given path.
func (s *S3Store) Remove(ctx context.Context, path string) error {
	key, err := objectKey(path)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return ErrArtifactNotFound
		}
		return fmt.Errorf("failed to delete from s3: %w", err)
	}
	return nil
}

// Exists reports whether an artifact is present at the given path.
func (s *S3Store) Exists(ctx context.Context, path string) (bool, error) {
	key, err := objectKey(path)
	if err != nil {
		return false, err
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check s3 object existence: %w", err)
	}
	return true, nil
}

// List returns artifact keys under the given prefix.
func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	}
	if prefix != "" {
		key, err := objectKey(prefix)
		if err != nil {
			return nil, err
		}
		input.Prefix = aws.String(key)
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list s3 objects: %w", err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

// URL returns a presigned URL for the artifact.
func (s *S3Store) URL(ctx context.Context, path string) (string, error) {
	key, err := objectKey(path)
	if err != nil {
		return "", err
	}

	exists, err := s.Exists(ctx, path)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrArtifactNotFound
	}

	presigned, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.presignExpiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return presigned.URL, nil
}

// objectKey validates a path and normalizes it into an S3 key. Traversal
// checks are kept for parity with the local store.
func objectKey(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: path cannot be empty", ErrInvalidPath)
	}
	clean := filepath.Clean(path)
	if len(clean) > 0 && clean[0] == '.' {
		return "", fmt.Errorf("%w: path traversal detected", ErrInvalidPath)
	}
	if filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: absolute paths not allowed", ErrInvalidPath)
	}
	return filepath.ToSlash(clean), nil
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}
