// Package publish uploads export artifacts to S3 or an S3-compatible store.
package publish

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

var contentTypes = map[string]string{
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv; charset=utf-8",
	".json": "application/json",
	".xml":  "application/xml",
}

// S3Options configures the target bucket and how to reach it.
type S3Options struct {
	Bucket string
	Prefix string
	// Endpoint is set for S3-compatible stores; requests then use path-style addressing.
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// S3Publisher puts local files under a key prefix of one bucket.
type S3Publisher struct {
	client  *s3.Client
	options S3Options
	logger  *zap.Logger
}

// NewS3Publisher builds the S3 client. Without static keys the default AWS
// credential chain applies.
func NewS3Publisher(ctx context.Context, options S3Options, logger *zap.Logger) (*S3Publisher, error) {
	if options.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(options.Region),
	}
	if options.AccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(options.AccessKey, options.SecretKey, "")))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Publisher{client: client, options: options, logger: logger}, nil
}

// Key returns the object key a local file is stored under.
func (p *S3Publisher) Key(localPath string) string {
	return path.Join(p.options.Prefix, filepath.Base(localPath))
}

// Publish uploads localPath and returns the object URL.
func (p *S3Publisher) Publish(ctx context.Context, localPath string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", localPath, err)
	}

	key := p.Key(localPath)
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.options.Bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType(localPath)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to s3://%s/%s: %w", localPath, p.options.Bucket, key, err)
	}

	objectURL := p.objectURL(key)
	p.logger.Info("artifact published", zap.String("path", localPath), zap.String("url", objectURL), zap.Int64("bytes", info.Size()))
	return objectURL, nil
}

func (p *S3Publisher) objectURL(key string) string {
	if p.options.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(p.options.Endpoint, "/"), p.options.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.options.Bucket, p.options.Region, key)
}

func contentType(localPath string) string {
	if value, ok := contentTypes[strings.ToLower(filepath.Ext(localPath))]; ok {
		return value
	}
	return "application/octet-stream"
}
