package etl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ruslano69/gssdash/pkg/core/table"
)

// fetch читает сырые байты источника. Все сбои доступа оборачиваются в ErrResourceUnavailable.
func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	switch l.source.Scheme() {
	case "http", "https":
		return l.fetchHTTP(ctx)
	case "s3":
		return l.fetchS3(ctx)
	default:
		return l.fetchFile()
	}
}

// fetchHTTP выполняет один GET без повторов
func (l *Loader) fetchHTTP(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid request: %v", table.ErrResourceUnavailable, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", table.ErrResourceUnavailable, l.source.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: GET %s: status %d", table.ErrResourceUnavailable, l.source.URL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", table.ErrResourceUnavailable, err)
	}
	return data, nil
}

func (l *Loader) fetchFile() ([]byte, error) {
	path := l.source.URL
	if u, err := url.Parse(path); err == nil && u.Scheme == "file" {
		path = u.Path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read file: %v", table.ErrResourceUnavailable, err)
	}
	return data, nil
}

// fetchS3 скачивает объект через s3 manager.Downloader (параллельные range-запросы)
func (l *Loader) fetchS3(ctx context.Context) ([]byte, error) {
	bucket, key, err := parseS3URL(l.source.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", table.ErrResourceUnavailable, err)
	}

	client, err := newS3Client(ctx, l.source.S3)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", table.ErrResourceUnavailable, err)
	}

	buf := manager.NewWriteAtBuffer(nil)
	downloader := manager.NewDownloader(client)
	if _, err := downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return nil, fmt.Errorf("%w: s3://%s/%s: %v", table.ErrResourceUnavailable, bucket, key, err)
	}

	return buf.Bytes(), nil
}

func newS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// parseS3URL разбирает s3://bucket/path/to/key
func parseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 url: %w", err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 url: %s", raw)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("s3 url must be s3://bucket/key, got %s", raw)
	}
	return u.Host, key, nil
}
