package refresh

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3GetObjectFunc adapts a function to the s3API interface.
type S3GetObjectFunc func(ctx context.Context, in *s3.GetObjectInput) (*s3.GetObjectOutput, error)

func (f S3GetObjectFunc) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return f(ctx, in)
}

// NewS3FetcherWithClient builds an S3Fetcher around a stub client.
func NewS3FetcherWithClient(client S3GetObjectFunc, bucket, key string) *S3Fetcher {
	return &S3Fetcher{client: client, bucket: bucket, key: key}
}

var ParseS3URL = parseS3URL
