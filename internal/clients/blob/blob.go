package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	cfg "blog-platform/internal/config"
	"blog-platform/internal/domain/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Storage archives uploaded source files in an S3-compatible bucket, one
// folder per user.
type Storage struct {
	client *s3.Client
	bucket string
}

func New(ctx context.Context, blobCfg cfg.Blob) (*Storage, error) {
	const op = "clients.blob.New"

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(blobCfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			blobCfg.AccessKey, blobCfg.SecretKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if blobCfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(blobCfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Storage{client: client, bucket: blobCfg.Bucket}, nil
}

// Upload stores the file under <userID>-<first>-<last>/<uuid>-<filename>
// and returns the object key.
func (s *Storage) Upload(ctx context.Context, owner models.User, filename, contentType string, data []byte) (string, error) {
	const op = "clients.blob.Upload"

	key := fmt.Sprintf("%s/%s-%s", userFolder(owner), uuid.New(), filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return key, nil
}

func userFolder(owner models.User) string {
	return fmt.Sprintf("%d-%s-%s", owner.ID, sanitize(owner.FirstName), sanitize(owner.LastName))
}

// sanitize drops characters that are awkward in object keys.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
