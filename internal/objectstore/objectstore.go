// Package objectstore hands out short-lived URLs for artwork kept in an S3
// compatible bucket, so it can be uploaded to Printify by URL.
package objectstore

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"printify/pkg/config"
)

// Client is the subset of *minio.Client we use.
type Client interface {
	PresignedGetObject(ctx context.Context, bucket, object string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

type Store struct {
	api Client
	ttl time.Duration
}

var _ Client = (*minio.Client)(nil)

// New connects to cfg.Endpoint. It does not contact the server.
func New(cfg config.S3Config) (*Store, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("S3_ENDPOINT is not set")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}
	return NewWithClient(mc, cfg.PresignTTL), nil
}

func NewWithClient(api Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{api: api, ttl: ttl}
}

// Object names a key inside a bucket.
type Object struct {
	Bucket string
	Key    string
}

func (o Object) String() string { return "s3://" + o.Bucket + "/" + o.Key }

// FileName is the last path element of the key.
func (o Object) FileName() string { return path.Base(o.Key) }

// ParseURI parses "s3://bucket/path/to/key".
func ParseURI(uri string) (Object, error) {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return Object{}, fmt.Errorf("parse %q: %w", uri, err)
	}
	if u.Scheme != "s3" {
		return Object{}, fmt.Errorf("%q is not an s3:// uri", uri)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" || strings.HasSuffix(key, "/") {
		return Object{}, fmt.Errorf("%q must name a bucket and an object key", uri)
	}
	return Object{Bucket: u.Host, Key: key}, nil
}

// IsURI reports whether s looks like an s3:// uri.
func IsURI(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "s3://")
}

// PresignGet checks that the object exists and returns a GET URL valid for
// the configured TTL.
func (s *Store) PresignGet(ctx context.Context, o Object) (string, error) {
	if _, err := s.api.StatObject(ctx, o.Bucket, o.Key, minio.StatObjectOptions{}); err != nil {
		return "", fmt.Errorf("stat %s: %w", o, err)
	}
	u, err := s.api.PresignedGetObject(ctx, o.Bucket, o.Key, s.ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", o, err)
	}
	return u.String(), nil
}
