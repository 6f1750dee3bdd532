// internal/storage/s3.go
package storage

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lithammer/shortuuid/v4"
)

// UploadSigner produces a time-limited upload target for a generated
// unique object name.
type UploadSigner interface {
	SignUploadURL(ctx context.Context) (string, error)
}

// S3Signer presigns PUT URLs against a fixed bucket.
type S3Signer struct {
	presigner *s3.PresignClient
	bucket    string
	expiry    time.Duration
}

func NewS3Signer(ctx context.Context, region, bucket string, expiry time.Duration) (*S3Signer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Signer{
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		expiry:    expiry,
	}, nil
}

// SignUploadURL generates a unique jpeg object name and returns a
// presigned PUT URL for it.
func (s *S3Signer) SignUploadURL(ctx context.Context) (string, error) {
	imageName := fmt.Sprintf("%s-%d.jpeg", shortuuid.New(), time.Now().UnixMilli())
	contentType := "image/jpeg"

	request, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &imageName,
		ContentType: &contentType,
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload URL: %v", err)
	}

	return request.URL, nil
}
