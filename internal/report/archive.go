package report

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archiver keeps a copy of generated reports.
type Archiver interface {
	Archive(ctx context.Context, sessionID string, doc *Document) (string, error)
}

// S3Config configures an S3-compatible archive bucket.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// Enabled reports whether an endpoint and bucket are configured.
func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// S3Archiver uploads reports to an S3-compatible object store.
type S3Archiver struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

// NewS3Archiver creates an archiver for cfg. It does not contact the
// server.
func NewS3Archiver(cfg S3Config) (*S3Archiver, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return &S3Archiver{client: client, bucket: cfg.Bucket, now: time.Now}, nil
}

// ObjectKey returns the object name for a report: reports/<session>/<file>.
// Ids that are not a single path segment are filed under anonymous.
func ObjectKey(sessionID string, at time.Time, filename string) string {
	if !safeSegment(sessionID) {
		sessionID = "anonymous"
	}
	ext := path.Ext(filename)
	base := filename[:len(filename)-len(ext)]
	return path.Join("reports", sessionID, fmt.Sprintf("%s-%s%s", base, at.UTC().Format("20060102T150405Z"), ext))
}

// Archive uploads doc and returns its object key.
func (a *S3Archiver) Archive(ctx context.Context, sessionID string, doc *Document) (string, error) {
	key := ObjectKey(sessionID, a.now(), doc.Filename)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(doc.Data), int64(len(doc.Data)), minio.PutObjectOptions{
		ContentType: doc.MimeType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

func safeSegment(s string) bool {
	return s != "" && s != "." && !strings.Contains(s, "..") && !strings.ContainsAny(s, `/\`)
}
