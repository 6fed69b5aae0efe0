package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// S3API is the subset of the S3 client used for templates and reports.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store reads templates from and writes reports to a bucket.
type S3Store struct {
	Client S3API
	Bucket string
	Prefix string
}

// NewS3Store creates a new store.
func NewS3Store(cfg aws.Config, bucket, prefix string) *S3Store {
	return &S3Store{
		Client: s3.NewFromConfig(cfg),
		Bucket: bucket,
		Prefix: prefix,
	}
}

// Key returns the object key for name under the store prefix.
func (s *S3Store) Key(name string) string {
	return strings.TrimPrefix(path.Join(s.Prefix, name), "/")
}

// Open downloads an object of bucket. The caller closes the body.
func (s *S3Store) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

// UploadReport uploads a generated workbook and returns its key.
func (s *S3Store) UploadReport(ctx context.Context, report *Report) (string, error) {
	key := s.Key(report.Filename)
	slog.Info("Uploading to S3", "bucket", s.Bucket, "key", key, "bytes", len(report.Data))

	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(report.Data),
		ContentLength: aws.Int64(int64(len(report.Data))),
		ContentType:   aws.String(xlsxContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to s3: %w", err)
	}
	return key, nil
}

// parseS3URL splits "s3://bucket/key" into bucket and key.
func parseS3URL(location string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(location, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
