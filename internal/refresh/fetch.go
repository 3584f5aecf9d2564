package refresh

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// HTTPFetcher downloads the snapshot with a plain GET. A nil Client falls
// back to http.DefaultClient, which never times out; NewFetcher always sets one.
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

// Fetch issues the GET and returns the body. Non-2xx responses are errors.
func (f HTTPFetcher) Fetch(ctx context.Context) (io.ReadCloser, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", f.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("get %s: unexpected status %s", f.URL, resp.Status)
	}
	return resp.Body, nil
}

// s3API is the slice of *s3.Client the fetcher uses, so tests can stub it.
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher downloads the snapshot object from an S3-compatible bucket.
type S3Fetcher struct {
	client s3API
	bucket string
	key    string
}

// SourceConfig holds the construction parameters for NewFetcher.
type SourceConfig struct {
	Region   string
	Endpoint string // optional; enables a custom endpoint with path-style addressing (e.g. MinIO)
	// Timeout bounds a whole download, body included. Zero means no limit.
	Timeout time.Duration
}

// NewS3Fetcher builds an S3Fetcher for an s3://bucket/key source using the
// default AWS credential chain.
func NewS3Fetcher(ctx context.Context, source string, cfg SourceConfig) (*S3Fetcher, error) {
	bucket, key, err := parseS3URL(source)
	if err != nil {
		return nil, err
	}
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.Timeout > 0 {
		loadOpts = append(loadOpts, config.WithHTTPClient(awshttp.NewBuildableClient().WithTimeout(cfg.Timeout)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Fetcher{client: client, bucket: bucket, key: key}, nil
}

// Fetch returns the object body.
func (f *S3Fetcher) Fetch(ctx context.Context) (io.ReadCloser, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &f.bucket, Key: &f.key})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", f.bucket, f.key, err)
	}
	return out.Body, nil
}

// NewFetcher picks a Fetcher for source by URL scheme: s3:// uses S3,
// http:// and https:// use HTTPFetcher with a client bounded by cfg.Timeout.
func NewFetcher(ctx context.Context, source string, cfg SourceConfig) (Fetcher, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse source url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "s3":
		return NewS3Fetcher(ctx, source, cfg)
	case "http", "https":
		return HTTPFetcher{URL: source, Client: &http.Client{Timeout: cfg.Timeout}}, nil
	default:
		return nil, fmt.Errorf("unsupported snapshot source scheme %q", u.Scheme)
	}
}

func parseS3URL(source string) (bucket, key string, err error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", "", fmt.Errorf("parse s3 url: %w", err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 source %q: want s3://bucket/key", source)
	}
	return bucket, key, nil
}
