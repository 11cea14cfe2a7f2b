// Package storage uploads ticket attachments to S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds upload limit")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("file is empty")
)

var documentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// PutObjectAPI is the slice of the S3 client the store needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader stores a file and returns the attachment metadata persisted on a thread entry.
type Uploader interface {
	Upload(ctx context.Context, name string, contentType string, size int64, body io.Reader) (models.Attachment, error)
}

// S3Store uploads attachments into one bucket.
type S3Store struct {
	client    PutObjectAPI
	bucket    string
	region    string
	publicURL string
	maxBytes  int64
	now       func() time.Time
}

// NewS3Store loads AWS credentials from the default chain.
func NewS3Store(ctx context.Context, region, bucket, publicURL string, maxBytes int64) (*S3Store, error) {
	if bucket == "" {
		return nil, errors.New("s3 bucket is empty")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewS3StoreWithClient(s3.NewFromConfig(cfg), region, bucket, publicURL, maxBytes), nil
}

// NewS3StoreWithClient builds a store around an existing client.
func NewS3StoreWithClient(client PutObjectAPI, region, bucket, publicURL string, maxBytes int64) *S3Store {
	return &S3Store{
		client:    client,
		bucket:    bucket,
		region:    region,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxBytes:  maxBytes,
		now:       time.Now,
	}
}

// KindFor maps a MIME type onto an attachment kind.
func KindFor(contentType string) (models.AttachmentKind, error) {
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if strings.HasPrefix(contentType, "image/") {
		return models.AttachmentImage, nil
	}
	if documentTypes[contentType] {
		return models.AttachmentDocument, nil
	}
	return "", ErrUnsupportedType
}

// Upload checks size and type, then writes the object.
func (s *S3Store) Upload(ctx context.Context, name string, contentType string, size int64, body io.Reader) (models.Attachment, error) {
	if size <= 0 {
		return models.Attachment{}, ErrEmptyFile
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return models.Attachment{}, ErrFileTooLarge
	}
	kind, err := KindFor(contentType)
	if err != nil {
		return models.Attachment{}, err
	}

	base := unsafeChars.ReplaceAllString(path.Base(name), "_")
	key := "support-attachments/" + s.now().UTC().Format("20060102150405") + "-" + uuid.NewString() + "-" + base

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return models.Attachment{}, fmt.Errorf("put object: %w", err)
	}

	return models.Attachment{URL: s.objectURL(key), Name: name, Kind: kind}, nil
}

func (s *S3Store) objectURL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
