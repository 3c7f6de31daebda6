package pref

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of *s3.Client used by S3Persister.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Persister stores records as objects named <prefix><key>.json.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	persister := pref.NewS3Persister(s3.NewFromConfig(cfg), "my-bucket", "prefs/")
type S3Persister struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Persister creates an S3Persister.
func NewS3Persister(client S3API, bucket, prefix string) *S3Persister {
	return &S3Persister{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (s *S3Persister) objectKey(key string) string {
	return s.prefix + key + ".json"
}

// Load implements Persister.
func (s *S3Persister) Load(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("s3 get %s: %w", s.objectKey(key), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", s.objectKey(key), err)
	}
	return data, nil
}

// Save implements Persister.
func (s *S3Persister) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", s.objectKey(key), err)
	}
	return nil
}
