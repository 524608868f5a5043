package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"travel-agency/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ObjectPutter is the part of the S3 client the store needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3 struct {
	client  ObjectPutter
	bucket  string
	baseURL string
	log     *zap.Logger
}

// NewS3 loads AWS credentials from the default chain.
func NewS3(ctx context.Context, cfg utils.MediaConfig, log *zap.Logger) (*S3, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, config.WithRegion(cfg.S3Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return NewS3WithClient(s3.NewFromConfig(awsCfg), cfg, log), nil
}

func NewS3WithClient(client ObjectPutter, cfg utils.MediaConfig, log *zap.Logger) *S3 {
	baseURL := strings.TrimRight(cfg.S3BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}

	return &S3{
		client:  client,
		bucket:  cfg.S3Bucket,
		baseURL: baseURL,
		log:     log.With(zap.String("media", "s3")),
	}
}

func (s *S3) Save(ctx context.Context, folder, filename string, body io.Reader, contentType string) (string, error) {
	key, err := objectKey(folder, filename)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.log.Error("Could not put object to S3 bucket",
			zap.Error(err),
			zap.String("bucket", s.bucket),
			zap.String("key", key),
		)
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	s.log.Info("Added object to bucket", zap.String("key", key), zap.String("bucket", s.bucket))
	return s.baseURL + "/" + key, nil
}
