// Package objectstore wraps the AWS S3 SDK to generate presigned upload
// URLs against an S3-compatible endpoint (e.g. Cloudflare R2 or MinIO).
package objectstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignExpiry is how long a generated upload URL remains valid.
const PresignExpiry = time.Hour

// Presigner issues presigned PUT URLs scoped to one bucket.
type Presigner struct {
	client *s3.PresignClient
	bucket string
}

// New builds a Presigner pointed at a custom S3-compatible endpoint using
// static credentials, the way a self-hosted object store is configured.
func New(ctx context.Context, endpoint, accessKeyID, secretAccessKey, bucket string) (*Presigner, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("objectstore: load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &Presigner{client: s3.NewPresignClient(client), bucket: bucket}, nil
}

// PresignPut returns a URL the caller can PUT fileSize bytes of contentType
// to directly, valid for PresignExpiry from now. Only the expiry is set:
// the URL is signed against the gateway's current clock, and no separate
// start time is passed to the signer.
func (p *Presigner) PresignPut(ctx context.Context, key, contentType string, fileSize int64) (string, error) {
	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(fileSize),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = PresignExpiry
	})
	if err != nil {
		return "", fmt.Errorf("objectstore: presign put for %s: %w", key, err)
	}
	return req.URL, nil
}
