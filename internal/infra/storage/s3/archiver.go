package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"hotelops/internal/app/policies"
)

const defaultLinkExpiry = 24 * time.Hour

// Archiver stores dashboard snapshots in a private S3-compatible bucket and
// hands out presigned download links.
type Archiver struct {
	bucket     string
	publicBase *url.URL
	linkExpiry time.Duration
	client     *minio.Client
	buckets    bucketAPI
	logger     *slog.Logger

	bucketMu    sync.Mutex
	bucketReady bool
}

// bucketAPI is the part of *minio.Client used to prepare the bucket.
type bucketAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
}

type Options struct {
	Endpoint       string
	PublicEndpoint string
	UseSSL         bool
	AccessKey      string
	SecretKey      string
	Bucket         string
	LinkExpiry     time.Duration
}

func NewArchiver(opts Options, logger *slog.Logger) (*Archiver, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	client, err := minio.New(hostOf(endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(opts.AccessKey), strings.TrimSpace(opts.SecretKey), ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}

	var public *url.URL
	if raw := strings.TrimSpace(opts.PublicEndpoint); raw != "" && raw != endpoint {
		public, err = url.Parse(raw)
		if err != nil || public.Host == "" {
			return nil, fmt.Errorf("s3: invalid public endpoint %q", raw)
		}
	}
	expiry := opts.LinkExpiry
	if expiry <= 0 {
		expiry = defaultLinkExpiry
	}
	return &Archiver{
		bucket:     bucket,
		publicBase: public,
		linkExpiry: expiry,
		client:     client,
		buckets:    client,
		logger:     logger,
	}, nil
}

// Upload stores the object and returns a presigned GET URL.
func (a *Archiver) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if reader == nil {
		return "", errors.New("s3: reader is required")
	}
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("s3: object key is required")
	}
	if err := a.ensureBucket(ctx); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := a.client.PutObject(ctx, a.bucket, key, reader, -1, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}
	link, err := a.client.PresignedGetObject(ctx, a.bucket, key, a.linkExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("s3: presign: %w", err)
	}
	out := a.rewrite(link).String()
	if a.logger != nil {
		a.logger.Info("snapshot archived", "bucket", a.bucket, "key", key)
	}
	return out, nil
}

// Ping checks that the bucket is reachable.
func (a *Archiver) Ping(ctx context.Context) error {
	_, err := a.client.BucketExists(ctx, a.bucket)
	return err
}

// ensureBucket creates the bucket on first use. Failures are not remembered,
// so the next upload tries again.
func (a *Archiver) ensureBucket(ctx context.Context) error {
	a.bucketMu.Lock()
	defer a.bucketMu.Unlock()
	if a.bucketReady {
		return nil
	}
	exists, err := a.buckets.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("s3: check bucket: %w", err)
	}
	if !exists {
		if err := a.buckets.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			// another instance may have created it meanwhile
			if exists, checkErr := a.buckets.BucketExists(ctx, a.bucket); checkErr != nil || !exists {
				return fmt.Errorf("s3: create bucket: %w", err)
			}
		}
		if a.logger != nil {
			a.logger.Info("snapshot bucket ready", "bucket", a.bucket)
		}
	}
	a.bucketReady = true
	return nil
}

// rewrite points a presigned link at the public endpoint. The signature covers
// the path and query, which are kept.
func (a *Archiver) rewrite(link *url.URL) *url.URL {
	if a.publicBase == nil {
		return link
	}
	out := *link
	out.Scheme = a.publicBase.Scheme
	out.Host = a.publicBase.Host
	return &out
}

func hostOf(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

var _ policies.SnapshotArchiver = (*Archiver)(nil)
