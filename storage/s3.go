package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultURLTTL = 15 * time.Minute

// S3Config holds configuration for the S3 client and presigner.
type S3Config struct {
	Bucket    string        // default bucket when a location omits one
	Region    string        // AWS region
	Endpoint  string        // custom endpoint (MinIO/LocalStack); empty for AWS
	AccessKey string        // static credentials; empty uses the default chain
	SecretKey string        //
	URLTTL    time.Duration // presigned URL lifetime, defaults to 15m
}

// NewS3Client builds an S3 client from the given config. With no static
// credentials configured it falls back to the SDK's default chain (env,
// shared config, instance role).
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Opts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
			o.UsePathStyle = true
		})
	}

	return s3.NewFromConfig(awsCfg, s3Opts...), nil
}

// Presigner issues short-lived presigned GET URLs for artifacts held in
// object storage. It never transfers bytes itself; the client downloads
// directly from the object store.
type Presigner struct {
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
	log     *slog.Logger
}

// NewPresigner creates a Presigner on top of an S3 client. bucket is used
// when a location path does not carry its own bucket.
func NewPresigner(client *s3.Client, bucket string, ttl time.Duration, log *slog.Logger) *Presigner {
	if ttl <= 0 {
		ttl = defaultURLTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Presigner{
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		ttl:     ttl,
		log:     log,
	}
}

// PresignGet derives the object key from filePath and issues a presigned GET
// URL for it, unscoped to any object version so the latest version is always
// served. Failures are returned to the caller without retries.
func (p *Presigner) PresignGet(ctx context.Context, filePath string) (string, error) {
	bucket, key, err := ParseS3Path(filePath)
	if err != nil {
		return "", err
	}
	if bucket == "" {
		bucket = p.bucket
	}
	if bucket == "" {
		return "", fmt.Errorf("no bucket in path %q and no default bucket configured", filePath)
	}

	req, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign GET for key %q: %w", key, err)
	}

	p.log.Debug("issued presigned URL", "bucket", bucket, "key", key, "ttl", p.ttl)
	return req.URL, nil
}

// ParseS3Path splits an s3://bucket/key path into bucket and object key.
// A path of the form s3:/key or s3://bucket (no key) is rejected.
func ParseS3Path(p string) (bucket, key string, err error) {
	trimmed, ok := strings.CutPrefix(p, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 path: %q", p)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed s3 path: %q", p)
	}
	return parts[0], parts[1], nil
}
