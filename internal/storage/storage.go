// Package storage provides the BaaS glue the scoring service uses to fetch
// reference score NoteLists and persist finished Recordings. The production
// implementation talks to S3; a local fixture implementation backs the
// debug/test workflow the original deployment gated behind DEBUG=True.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Bucket is the storage contract the scoring handlers depend on: fetch an
// object's bytes by key, or store bytes under a freshly minted key.
type Bucket interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, keyPrefix string, data []byte) (key string, err error)
}

// S3Bucket is the production Bucket implementation.
type S3Bucket struct {
	client *s3.Client
	bucket string
}

// NewS3Bucket builds an S3Bucket using the default AWS credential chain
// (environment, shared config, or instance profile).
func NewS3Bucket(ctx context.Context, bucket string) (*S3Bucket, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: loading AWS config: %w", err)
	}
	return &S3Bucket{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

func (b *S3Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: getting %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("storage: reading %s: %w", key, err)
	}
	return data, nil
}

func (b *S3Bucket) Put(ctx context.Context, keyPrefix string, data []byte) (string, error) {
	key := fmt.Sprintf("%s-%s.pb", keyPrefix, uuid.NewString())
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return "", fmt.Errorf("storage: putting %s: %w", key, err)
	}
	return key, nil
}

// LocalFixtureBucket reads and writes objects under a local directory,
// mirroring the original deployment's DEBUG-mode fallback to files under
// audio/ and scores/ instead of the BaaS.
type LocalFixtureBucket struct {
	dir string
}

// NewLocalFixtureBucket returns a Bucket rooted at dir. dir is created if it
// does not already exist.
func NewLocalFixtureBucket(dir string) (*LocalFixtureBucket, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("storage: creating fixture dir %s: %w", dir, err)
	}
	return &LocalFixtureBucket{dir: dir}, nil
}

func (b *LocalFixtureBucket) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(b.dir, key))
	if err != nil {
		return nil, fmt.Errorf("storage: reading fixture %s: %w", key, err)
	}
	return data, nil
}

func (b *LocalFixtureBucket) Put(_ context.Context, keyPrefix string, data []byte) (string, error) {
	key := fmt.Sprintf("%s-%s.pb", keyPrefix, uuid.NewString())
	if err := os.WriteFile(filepath.Join(b.dir, key), data, 0644); err != nil {
		return "", fmt.Errorf("storage: writing fixture %s: %w", key, err)
	}
	return key, nil
}
