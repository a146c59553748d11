package vision

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

type Opts struct {
	Region    string
	AccessKey string
	SecretKey string
}

type Detector struct {
	client *rekognition.Client
}

func New(ctx context.Context, o Opts) (*Detector, error) {
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
	return &Detector{client: rekognition.NewFromConfig(cfg)}, nil
}

// DetectLabels 返回标签名，保持服务端给出的顺序，不去重不排序
func (d *Detector) DetectLabels(ctx context.Context, image []byte, maxLabels int) ([]string, error) {
	out, err := d.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:     &types.Image{Bytes: image},
		MaxLabels: aws.Int32(int32(maxLabels)),
	})
	if err != nil {
		return nil, fmt.Errorf("detect labels: %w", err)
	}
	names := make([]string, 0, len(out.Labels))
	for _, l := range out.Labels {
		names = append(names, aws.ToString(l.Name))
	}
	return names, nil
}
