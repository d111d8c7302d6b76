// Package s3 hands the admin console presigned URLs so cover images go
// straight from the browser to the bucket.
package s3

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignTTL = 15 * time.Minute

var ErrContentType = errors.New("unsupported image type")

var coverExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type CoverStore struct {
	Client     *s3.Client
	Presigner  *s3.PresignClient
	Bucket     string
	publicBase string
	now        func() time.Time
}

// New builds an S3-compatible client (R2, MinIO, AWS) from cfg.
func New(ctx context.Context, cfg config.StorageConfig) (*CoverStore, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = false
	})

	return &CoverStore{
		Client:     client,
		Presigner:  s3.NewPresignClient(client),
		Bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
		now:        time.Now,
	}, nil
}

// CoverKey names a new object: covers/YYYY/MM/<uuid>.<ext>.
func (s *CoverStore) CoverKey(contentType string) (string, error) {
	ext, ok := coverExt[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", ErrContentType
	}
	t := s.now().UTC()
	return path.Join("covers", t.Format("2006"), t.Format("01"), uuid.NewString()+ext), nil
}

type PresignedUpload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"uploadUrl"`
	PublicURL string    `json:"publicUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PresignCoverUpload creates a presigned PUT URL for one cover image.
func (s *CoverStore) PresignCoverUpload(ctx context.Context, contentType string) (PresignedUpload, error) {
	key, err := s.CoverKey(contentType)
	if err != nil {
		return PresignedUpload{}, err
	}
	req, err := s.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = presignTTL
	})
	if err != nil {
		return PresignedUpload{}, fmt.Errorf("failed to presign upload: %w", err)
	}
	pub, err := s.PublicURL(ctx, key)
	if err != nil {
		return PresignedUpload{}, err
	}
	return PresignedUpload{Key: key, UploadURL: req.URL, PublicURL: pub, ExpiresAt: s.now().Add(presignTTL)}, nil
}

// PublicURL is the permanent URL stored on the book. Buckets without a
// public base get a presigned GET instead.
func (s *CoverStore) PublicURL(ctx context.Context, key string) (string, error) {
	if s.publicBase != "" {
		return s.publicBase + "/" + key, nil
	}
	req, err := s.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = presignTTL
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return req.URL, nil
}
