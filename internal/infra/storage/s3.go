package storage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Presigner はアップロード用の署名付きPUT URLを発行する。
type S3Presigner struct {
	bucket    string
	presigner *s3.PresignClient
}

func NewS3Presigner(ctx context.Context, region string, bucket string, accessKeyID string, secretAccessKey string) (*S3Presigner, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg)
	return &S3Presigner{
		bucket:    bucket,
		presigner: s3.NewPresignClient(client),
	}, nil
}

func (p *S3Presigner) PresignPut(ctx context.Context, key string, contentType string, expires time.Duration) (string, error) {
	req, err := p.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
