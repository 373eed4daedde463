package dataset

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
)

// S3API is the subset of the S3 client used to fetch snapshots.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config holds the client settings for an S3-compatible backend.
type S3Config struct {
	Region    string
	Endpoint  string // optional; e.g. a MinIO URL
	PathStyle bool
}

// NewS3Client builds a client from the default AWS credential chain.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// S3Source reads a CSV or XLSX object from a bucket.
type S3Source struct {
	id     string
	Bucket string
	Key    string
	client S3API
	cfg    S3Config
}

func (s *S3Source) ID() string { return s.id }

// Load downloads the object and parses it by key extension.
func (s *S3Source) Load(ctx context.Context) (*table.Table, error) {
	client := s.client
	if client == nil {
		c, err := NewS3Client(ctx, s.cfg)
		if err != nil {
			return nil, loadError(s.id, err)
		}
		client = c
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.Bucket), Key: aws.String(s.Key)})
	if err != nil {
		return nil, loadError(s.id, fmt.Errorf("failed to get object: %w", err))
	}
	defer out.Body.Close()

	var t *table.Table
	if isWorkbook(s.Key) {
		t, err = ReadExcel(out.Body)
	} else {
		t, err = ReadCSV(out.Body)
	}
	if err != nil {
		return nil, loadError(s.id, err)
	}
	return t, nil
}
