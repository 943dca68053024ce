package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
)

type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
}

type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3Store works against AWS or any S3 compatible endpoint (MinIO, R2).
func NewS3Store(cfg S3Config) *S3Store {
	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Store{
		client:    s3.New(opts),
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", httperr.Upstream("storage_failed", err)
	}
	return s.publicURL + "/" + key, nil
}

type Avatars struct {
	store Store
}

func NewAvatars(store Store) *Avatars {
	return &Avatars{store: store}
}

// Upload stores a processed avatar for barberID and returns its public URL.
func (a *Avatars) Upload(ctx context.Context, barberID uint, r io.Reader) (string, error) {
	if a == nil || a.store == nil {
		return "", httperr.NotConfigured("storage_disabled")
	}

	data, err := ProcessAvatar(r)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("avatars/%d/%s.webp", barberID, uuid.NewString())
	return a.store.Put(ctx, key, "image/webp", data)
}
