package storage

import (
	"context"
	"fmt"
	"strings"

	appconfig "running-events-backend/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// deleteBatchSize DeleteObjects 單次最多 1000 個 key
const deleteBatchSize = 1000

// ObjectAPI R2Disk 需要的 S3 操作
type ObjectAPI interface {
	s3.ListObjectsV2APIClient
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// R2Disk Cloudflare R2（S3 相容）
type R2Disk struct {
	name      string
	bucket    string
	publicURL string
	client    ObjectAPI
}

func NewR2Disk(name, bucket, publicURL string, client ObjectAPI) *R2Disk {
	return &R2Disk{
		name:      name,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		client:    client,
	}
}

// NewR2Client 以 path-style 與靜態金鑰連線到 R2 endpoint
func NewR2Client(ctx context.Context, cfg appconfig.R2Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load r2 config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	}), nil
}

func (d *R2Disk) Name() string {
	return d.name
}

func (d *R2Disk) DeleteDirectory(ctx context.Context, dir string) error {
	prefix := strings.TrimLeft(dir, "/")
	if prefix == "" {
		return fmt.Errorf("refusing to delete the whole bucket %s", d.bucket)
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	paginator := s3.NewListObjectsV2Paginator(d.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(d.bucket),
		Prefix: aws.String(prefix),
	})

	batch := make([]types.ObjectIdentifier, 0, deleteBatchSize)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("list %s/%s: %w", d.bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			batch = append(batch, types.ObjectIdentifier{Key: obj.Key})
			if len(batch) == deleteBatchSize {
				if err := d.deleteBatch(ctx, batch); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
	}

	if len(batch) > 0 {
		return d.deleteBatch(ctx, batch)
	}
	return nil
}

func (d *R2Disk) deleteBatch(ctx context.Context, objects []types.ObjectIdentifier) error {
	ids := make([]types.ObjectIdentifier, len(objects))
	copy(ids, objects)

	out, err := d.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(d.bucket),
		Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("delete objects in %s: %w", d.bucket, err)
	}
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("delete %s: %s (%d failed)", aws.ToString(first.Key), aws.ToString(first.Message), len(out.Errors))
	}
	return nil
}

func (d *R2Disk) URL(path string) string {
	return d.publicURL + "/" + strings.TrimLeft(path, "/")
}
