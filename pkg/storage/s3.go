// Package storage issues presigned S3 URLs for user uploaded assets.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/homio-app/homio-backend/pkg/config"
)

// PresignedUpload describes a one-off PUT the client performs directly against S3.
type PresignedUpload struct {
	URL       string
	Key       string
	PublicURL string
	ExpiresAt time.Time
}

type putPresigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Presigner signs PUT requests for the configured photo bucket.
type S3Presigner struct {
	presigner  putPresigner
	bucket     string
	publicBase string
	expiry     time.Duration
	now        func() time.Time
}

// NewS3Presigner loads the default AWS credential chain for cfg.Region.
func NewS3Presigner(ctx context.Context, cfg config.AWSConfig) (*S3Presigner, error) {
	if strings.TrimSpace(cfg.PhotoBucket) == "" {
		return nil, errors.New("s3 photo bucket is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)

	publicBase := strings.TrimRight(cfg.PublicAssetsBase, "/")
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.PhotoBucket, cfg.Region)
	}
	return newS3Presigner(s3.NewPresignClient(client), cfg.PhotoBucket, publicBase, cfg.UploadURLExpiry), nil
}

func newS3Presigner(p putPresigner, bucket, publicBase string, expiry time.Duration) *S3Presigner {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &S3Presigner{
		presigner:  p,
		bucket:     bucket,
		publicBase: publicBase,
		expiry:     expiry,
		now:        time.Now,
	}
}

// PresignPut returns a URL that accepts a single PUT of contentType at key.
func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string) (*PresignedUpload, error) {
	if key == "" {
		return nil, errors.New("object key is required")
	}
	req, err := p.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.expiry))
	if err != nil {
		return nil, fmt.Errorf("presign put %s: %w", key, err)
	}
	return &PresignedUpload{
		URL:       req.URL,
		Key:       key,
		PublicURL: p.publicBase + "/" + key,
		ExpiresAt: p.now().Add(p.expiry).UTC(),
	}, nil
}
