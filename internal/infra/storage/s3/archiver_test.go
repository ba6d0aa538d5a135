package s3

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
)

func TestNewArchiverValidatesOptions(t *testing.T) {
	if _, err := NewArchiver(Options{Bucket: "b"}, nil); err == nil {
		t.Fatal("expected endpoint error")
	}
	if _, err := NewArchiver(Options{Endpoint: "localhost:9000"}, nil); err == nil {
		t.Fatal("expected bucket error")
	}
	if _, err := NewArchiver(Options{Endpoint: "localhost:9000", Bucket: "b", PublicEndpoint: "::bad"}, nil); err == nil {
		t.Fatal("expected public endpoint error")
	}
}

func TestRewriteKeepsSignedPathAndQuery(t *testing.T) {
	a, err := NewArchiver(Options{
		Endpoint:       "http://minio:9000",
		PublicEndpoint: "https://files.example.com",
		Bucket:         "snapshots",
	}, nil)
	if err != nil {
		t.Fatalf("NewArchiver: %v", err)
	}
	signed, _ := url.Parse("http://minio:9000/snapshots/h1/a.json?X-Amz-Signature=abc")
	got := a.rewrite(signed).String()
	if got != "https://files.example.com/snapshots/h1/a.json?X-Amz-Signature=abc" {
		t.Fatalf("rewrite = %s", got)
	}
}

func TestUploadRejectsEmptyKey(t *testing.T) {
	a, err := NewArchiver(Options{Endpoint: "localhost:9000", Bucket: "b"}, nil)
	if err != nil {
		t.Fatalf("NewArchiver: %v", err)
	}
	if _, err := a.Upload(context.Background(), " / ", strings.NewReader("{}"), "application/json"); err == nil {
		t.Fatal("expected key error")
	}
	if hostOf("https://s3.local:9000") != "s3.local:9000" || hostOf("s3.local:9000") != "s3.local:9000" {
		t.Fatal("hostOf mismatch")
	}
}

type flakyBuckets struct {
	existsErrs []error
	exists     bool
	checks     int
	made       int
}

func (f *flakyBuckets) BucketExists(context.Context, string) (bool, error) {
	f.checks++
	if len(f.existsErrs) > 0 {
		err := f.existsErrs[0]
		f.existsErrs = f.existsErrs[1:]
		return false, err
	}
	return f.exists, nil
}

func (f *flakyBuckets) MakeBucket(context.Context, string, minio.MakeBucketOptions) error {
	f.made++
	f.exists = true
	return nil
}

func TestEnsureBucketRetriesAfterFailure(t *testing.T) {
	a, err := NewArchiver(Options{Endpoint: "localhost:9000", Bucket: "b"}, nil)
	if err != nil {
		t.Fatalf("NewArchiver: %v", err)
	}
	fake := &flakyBuckets{existsErrs: []error{errors.New("connection refused")}}
	a.buckets = fake
	ctx := context.Background()

	if err := a.ensureBucket(ctx); err == nil {
		t.Fatal("expected the first check to fail")
	}
	if err := a.ensureBucket(ctx); err != nil {
		t.Fatalf("second attempt: %v", err)
	}
	if fake.made != 1 {
		t.Fatalf("buckets created = %d, want 1", fake.made)
	}
	if err := a.ensureBucket(ctx); err != nil {
		t.Fatalf("third attempt: %v", err)
	}
	if fake.checks != 2 {
		t.Fatalf("bucket checks = %d, want 2", fake.checks)
	}
}
