package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/config"
)

// ObjectStorage stores uploaded images and deletes them by URL.
type ObjectStorage interface {
	Upload(ctx context.Context, folder string, file *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, url string) error
}

// OwnershipChecker is implemented by storages that can tell their own URLs
// apart from foreign ones.
type OwnershipChecker interface {
	Owns(url string) bool
}

var (
	ErrStorageDisabled = errors.New("image storage is not configured")
	ErrForeignObject   = errors.New("url does not belong to this bucket")
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Service keeps images in an S3 compatible bucket under <folder>/<uuid><ext>.
type S3Service struct {
	client    s3API
	bucket    string
	publicURL string
	maxBytes  int64
	formats   map[string]bool
}

func NewS3Service(ctx context.Context, cfg config.S3Config, upload config.UploadConfig) (*S3Service, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newS3Service(client, cfg, upload), nil
}

func newS3Service(client s3API, cfg config.S3Config, upload config.UploadConfig) *S3Service {
	formats := make(map[string]bool, len(upload.AllowedFormats))
	for _, f := range upload.AllowedFormats {
		formats[strings.ToLower(strings.TrimPrefix(f, "."))] = true
	}
	return &S3Service{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicBaseURL(cfg), "/"),
		maxBytes:  upload.MaxBytes,
		formats:   formats,
	}
}

func publicBaseURL(cfg config.S3Config) string {
	switch {
	case cfg.PublicURL != "":
		return cfg.PublicURL
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

func (s *S3Service) Upload(ctx context.Context, folder string, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(path.Ext(file.Filename))
	if !s.formats[strings.TrimPrefix(ext, ".")] {
		return "", Validation(fmt.Sprintf("unsupported image format %q", ext))
	}
	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return "", Validation(fmt.Sprintf("image exceeds %d bytes", s.maxBytes))
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		head := make([]byte, 512)
		n, _ := src.Read(head)
		contentType = http.DetectContentType(head[:n])
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("rewind upload: %w", err)
		}
	}

	key := path.Join(folder, uuid.New().String()+ext)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          src,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String(contentType),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return s.publicURL + "/" + key, nil
}

func (s *S3Service) Delete(ctx context.Context, url string) error {
	key, ok := s.ObjectKey(url)
	if !ok {
		return fmt.Errorf("%w: %s", ErrForeignObject, url)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Owns reports whether url points into this bucket.
func (s *S3Service) Owns(url string) bool {
	_, ok := s.ObjectKey(url)
	return ok
}

// ObjectKey derives the bucket key from a URL returned by Upload.
func (s *S3Service) ObjectKey(url string) (string, bool) {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	return key, key != ""
}
