package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the connection settings shared by all S3 destinations.
type S3Config struct {
	Region          string
	Endpoint        string // Optional: for custom S3-compatible endpoints
	AccessKeyID     string // Optional: AWS access key ID
	SecretAccessKey string // Optional: AWS secret access key
}

// ObjectPutter is the subset of the S3 client used by S3Destination.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client creates an S3 client from cfg.
// Static credentials are used when both keys are set; otherwise the default
// AWS credential chain applies.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	var configOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		configOpts = append(configOpts, config.WithRegion(cfg.Region))
	}

	// Use static credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

// S3Destination writes files under a key prefix in an S3 bucket.
// A single PutObject is atomic, so readers never see a partial object.
type S3Destination struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewS3Destination creates an S3Destination for bucket and prefix.
func NewS3Destination(client ObjectPutter, bucket, prefix string) *S3Destination {
	return &S3Destination{
		client: client,
		bucket: bucket,
		prefix: cleanPrefix(prefix),
	}
}

// Bucket returns the destination bucket.
func (d *S3Destination) Bucket() string {
	return d.bucket
}

// Prefix returns the key prefix, without leading or trailing slashes.
func (d *S3Destination) Prefix() string {
	return d.prefix
}

func (d *S3Destination) key(filename string) string {
	if d.prefix == "" {
		return filename
	}
	return path.Join(d.prefix, filename)
}

// Target returns the s3:// URI filename is written to.
func (d *S3Destination) Target(filename string) string {
	return "s3://" + d.bucket + "/" + d.key(filename)
}

// Write uploads content as filename under the prefix.
func (d *S3Destination) Write(ctx context.Context, filename string, content []byte) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(d.key(filename)),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("upload to S3: %w", err)
	}
	return nil
}

// cleanPrefix normalizes a key prefix to the form "a/b".
func cleanPrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	p := path.Clean("/" + prefix)
	if p == "/" {
		return ""
	}
	return p[1:]
}
