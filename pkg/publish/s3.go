package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// UploadTimeout bounds a single PutObject call
const UploadTimeout = 30 * time.Second

// ErrMissingBucket is returned when publishing is configured without a bucket
var ErrMissingBucket = errors.New("S3 bucket is required")

// S3Config holds connection settings for an S3-compatible object store
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string // Empty for AWS; set for MinIO, R2, Spaces...
	Region    string
	Bucket    string
	Prefix    string // Key prefix, e.g. "renders/"
	ACL       string // Canned ACL, e.g. "public-read"; empty for bucket default
}

// ObjectPutter is the part of the S3 client the publisher needs
type ObjectPutter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// Publisher uploads rendered images to a bucket
type Publisher struct {
	client ObjectPutter
	config S3Config
	logger core.Logger
}

// NewS3Publisher creates a publisher backed by a real S3 session
func NewS3Publisher(config S3Config, logger core.Logger) (*Publisher, error) {
	if config.Bucket == "" {
		return nil, ErrMissingBucket
	}

	awsConfig := &aws.Config{
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(config.Endpoint != ""),
	}
	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, "")
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return NewPublisher(s3.New(sess), config, logger)
}

// NewPublisher creates a publisher around an existing client
func NewPublisher(client ObjectPutter, config S3Config, logger core.Logger) (*Publisher, error) {
	if config.Bucket == "" {
		return nil, ErrMissingBucket
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &Publisher{client: client, config: config, logger: logger}, nil
}

// Key returns the full object key for name, including the configured prefix
func (p *Publisher) Key(name string) string {
	if p.config.Prefix == "" {
		return name
	}
	return path.Join(p.config.Prefix, name)
}

// Publish uploads data under name and returns the object key
func (p *Publisher) Publish(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	key := p.Key(name)
	size := int64(len(data))
	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}
	if p.config.ACL != "" {
		input.ACL = aws.String(p.config.ACL)
	}

	if _, err := p.client.PutObjectWithContext(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	p.logger.Printf("Uploaded s3://%s/%s (%d bytes)\n", p.config.Bucket, key, size)
	return key, nil
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}
