package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

const (
	// MaxUploadSize is the largest accepted upload (50MB).
	MaxUploadSize = 50 * 1024 * 1024
	// SnapsFolder holds thumbnails next to their originals.
	SnapsFolder = "snaps"
)

// S3Config holds S3 client configuration.
type S3Config struct {
	Region    string
	Bucket    string
	CDNDomain string // when set, object URLs point at the CDN instead of the bucket
	PathStyle bool   // localstack and other S3-compatible endpoints
}

// S3 uploads public objects to the uploads bucket.
type S3 struct {
	client   *s3.Client
	uploader *manager.Uploader
	cfg      S3Config
	logger   *zap.Logger
}

// NewS3 creates an S3 wrapper from a loaded AWS config.
func NewS3(awsCfg aws.Config, cfg S3Config, logger *zap.Logger) *S3 {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
	})
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
	})
	logger.Info("S3 uploads configured", zap.String("bucket", cfg.Bucket), zap.String("cdn", cfg.CDNDomain))
	return &S3{client: client, uploader: uploader, cfg: cfg, logger: logger}
}

// ObjectKey returns folder/subFolder/name with every segment reduced to its base name.
func ObjectKey(folder, subFolder, name string) string {
	return path.Join(path.Base(folder), path.Base(subFolder), path.Base(name))
}

// SnapKey returns the thumbnail key for an object stored under folder/subFolder.
func SnapKey(folder, subFolder, name string) string {
	return path.Join(path.Base(folder), path.Base(subFolder), SnapsFolder, path.Base(name))
}

// ContentTypeForExtension returns the MIME type for a file extension without the dot.
func ContentTypeForExtension(ext string) string {
	if ct := mime.TypeByExtension("." + strings.ToLower(ext)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ObjectURL returns the public URL of key: the CDN when configured, else the bucket.
func ObjectURL(cfg S3Config, key string) string {
	if cfg.CDNDomain != "" {
		domain := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(cfg.CDNDomain, "https://"), "http://"), "/")
		return fmt.Sprintf("https://%s/%s", domain, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", cfg.Bucket, cfg.Region, key)
}

// Upload streams body to key as a public-read object and returns its URL.
func (s *S3) Upload(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) (string, error) {
	var contentLengthPtr *int64
	if contentLength > 0 {
		contentLengthPtr = &contentLength
	}
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: contentLengthPtr,
		ACL:           types.ObjectCannedACLPublicRead,
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	s.logger.Debug("object uploaded", zap.String("key", key), zap.Int64("size", contentLength))
	return ObjectURL(s.cfg, key), nil
}

// DeleteObject removes an object from the uploads bucket.
func (s *S3) DeleteObject(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
