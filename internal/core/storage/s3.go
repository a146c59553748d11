package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Opts struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // MinIO / LocalStack 等 S3 兼容端点，可空
}

// S3Storage 把对象写入单个桶，访问 URL 由 bucket/region/key 派生
type S3Storage struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL string
}

func New(ctx context.Context, o Opts) (*S3Storage, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(o.Region),
	}
	if o.AccessKey != "" && o.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(opt *s3.Options) {
		if o.Endpoint != "" {
			opt.BaseEndpoint = aws.String(o.Endpoint)
			opt.UsePathStyle = true // MinIO 需要 path style
		}
	})

	baseURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", o.Bucket, o.Region)
	if o.Endpoint != "" {
		baseURL = strings.TrimSuffix(o.Endpoint, "/") + "/" + o.Bucket
	}

	return &S3Storage{client: client, bucket: o.Bucket, region: o.Region, baseURL: baseURL}, nil
}

// Put 上传后不做存在性校验
func (s *S3Storage) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

func (s *S3Storage) URL(key string) string {
	return s.baseURL + "/" + key
}
