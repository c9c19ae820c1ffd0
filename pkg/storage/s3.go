// Package storage is the exclusive interface to the S3 blob store. It
// owns the object key naming scheme and mints time-limited download URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FolderVideos is the S3 prefix for video objects.
const FolderVideos = "videos"

// AllowedVideoTypes maps accepted upload MIME types to file extensions.
// Anything outside this table is rejected before any storage call.
var AllowedVideoTypes = map[string]string{
	"video/webm":      ".webm",
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
}

// S3Config holds S3 client configuration.
type S3Config struct {
	Region               string
	AccessKeyID          string
	SecretAccessKey      string
	Bucket               string
	PresignExpireMinutes int
}

// S3 provides blob operations against the recordings bucket.
type S3 struct {
	client   *s3.Client
	uploader *manager.Uploader
	cfg      S3Config
	logger   *zap.Logger
}

// NewS3 creates an S3 client. Credentials come from config (env) or fall
// back to the default AWS credential chain.
func NewS3(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)))
	} else {
		logger.Warn("S3 client using default credential chain (AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY not set)")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024 // 5MB parts for streaming
	})
	return &S3{
		client:   client,
		uploader: uploader,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// NewVideoKey builds the object key for a new upload:
// videos/{owner}/{uuid}{ext}. The owner prefix namespaces users, the UUID
// makes concurrent uploads collision-free.
func NewVideoKey(owner, contentType string) string {
	ext, ok := AllowedVideoTypes[contentType]
	if !ok {
		ext = ".webm"
	}
	return path.Join(FolderVideos, owner, uuid.New().String()+ext)
}

// ExtForContentType reports the extension for an allowed video MIME type.
func ExtForContentType(contentType string) (string, bool) {
	ext, ok := AllowedVideoTypes[contentType]
	return ext, ok
}

// Put streams the body to a freshly named object and returns the key.
// The key is returned only after the write is confirmed; on error no
// metadata row must be created by the caller.
func (s *S3) Put(ctx context.Context, owner, contentType string, body io.Reader, contentLength int64) (string, error) {
	key := NewVideoKey(owner, contentType)
	var contentLengthPtr *int64
	if contentLength > 0 {
		contentLengthPtr = &contentLength
	}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: contentLengthPtr,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// Delete removes an object. S3 treats deleting an absent key as success,
// which gives the idempotency the delete path relies on.
func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// SignedDownloadURL mints a fresh presigned GET URL for the object,
// valid for the configured expiry from now. Never cached or reused.
func (s *S3) SignedDownloadURL(ctx context.Context, key string) (string, time.Duration, error) {
	expires := s.PresignExpire()
	presignClient := s3.NewPresignClient(s.client)
	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", 0, fmt.Errorf("presign get %s: %w", key, err)
	}
	return req.URL, expires, nil
}

// PresignExpire returns the configured presign duration.
func (s *S3) PresignExpire() time.Duration {
	if s.cfg.PresignExpireMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(s.cfg.PresignExpireMinutes) * time.Minute
}
