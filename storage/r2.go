package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kuvagram/api-go/config"
)

// R2 stores blobs in a Cloudflare R2 bucket through the S3 API.
type R2 struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewR2(cfg config.R2Config) *R2 {
	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		Region: "auto",
	})

	return &R2{
		client:    client,
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
	}
}

func (r *R2) Save(ctx context.Context, key string, contentType string, body io.Reader) error {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	return err
}

func (r *R2) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (r *R2) URL(key string) string {
	return fmt.Sprintf("%s/%s", r.publicURL, key)
}
