package filestorage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pnccp/pnccp-backend/pkg/config"
)

// S3API 本包使用的 S3 客户端方法
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3FileStorage struct {
	client S3API
	bucket string
}

// NewS3FileStorage 创建 S3 存储；配置了 endpoint 时按 LocalStack / MinIO 方式连接
func NewS3FileStorage(ctx context.Context, cfg *config.StorageConfig) (*S3FileStorage, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3FileStorageWithClient(client, cfg.Bucket), nil
}

// loadAWSConfig 配置了 access_key 时使用静态凭证，否则走默认凭证链
func loadAWSConfig(ctx context.Context, cfg *config.StorageConfig) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}
	return awsCfg, nil
}

// NewS3FileStorageWithClient 使用已有客户端创建存储
func NewS3FileStorageWithClient(client S3API, bucket string) *S3FileStorage {
	return &S3FileStorage{client: client, bucket: bucket}
}

// Put 上传对象
func (s *S3FileStorage) Put(ctx context.Context, key string, content []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}

func (s *S3FileStorage) Name() string { return "s3" }

var _ FileStorage = (*S3FileStorage)(nil)
