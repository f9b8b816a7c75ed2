package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"manager-account-api/config"
)

// objectPutter is the part of the SDK client the uploads need.
type objectPutter interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

// Client stores objects with SigV4 signed requests. Credentials come from the
// default AWS chain. With an endpoint set, requests use path style so MinIO
// and other S3 compatible stores work too.
type Client struct {
	logger   *zap.Logger
	api      objectPutter
	region   string
	bucket   string
	endpoint string
}

func New(ctx context.Context, logger *zap.Logger, cfg config.Image) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	api := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("s3 client configured", zap.String("bucket", cfg.Bucket), zap.String("region", cfg.Region))

	return newClient(logger, api, cfg.Region, cfg.Bucket, endpoint), nil
}

func newClient(logger *zap.Logger, api objectPutter, region, bucket, endpoint string) *Client {
	return &Client{
		logger:   logger,
		api:      api,
		region:   region,
		bucket:   bucket,
		endpoint: endpoint,
	}
}

func (c *Client) PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := c.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}

	c.logger.Debug("object stored", zap.String("bucket", c.bucket), zap.String("key", key), zap.Int64("size", size))

	return nil
}

func (c *Client) GetPublicURL(key string) string {
	if c.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}

func (c *Client) GetBucket() string { return c.bucket }

// Discard accepts every object and keeps none; used when no bucket is
// configured.
type Discard struct{}

func (Discard) PutObject(_ context.Context, _, _ string, body io.Reader, _ int64) error {
	_, err := io.Copy(io.Discard, body)
	return err
}

func (Discard) GetPublicURL(key string) string { return "/" + key }

func (Discard) GetBucket() string { return "" }
