// Package storage provides access to raw email messages kept in S3-compatible object storage.
// Messages are delivered to a bucket by the mail receiving service, and the bucket notifies
// about new objects. The store only reads objects, it never modifies the bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/go-pkgz/lgr"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/notification"
)

// DefaultMaxSize is a default limit for a message size
const DefaultMaxSize = 10 * 1024 * 1024

// ErrNotFound is returned when the object doesn't exist
var ErrNotFound = errors.New("object not found")

// S3Store reads objects from S3-compatible storage
type S3Store struct {
	Client  *minio.Client
	MaxSize int64 // max allowed object size, DefaultMaxSize if not set
}

// Params defines connection parameters for S3Store
type Params struct {
	Endpoint  string // host[:port], i.e. s3.amazonaws.com
	AccessKey string
	SecretKey string
	Region    string // region, if empty it is detected by a request to the bucket
	UseSSL    bool
	MaxSize   int64
	Debug     bool // trace all requests and responses to stdout
}

// New makes S3Store for the given params
func New(p Params) (*S3Store, error) {
	if p.Endpoint == "" {
		return nil, errors.New("empty s3 endpoint")
	}
	client, err := minio.New(p.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(p.AccessKey, p.SecretKey, ""),
		Secure: p.UseSSL,
		Region: p.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("can't make s3 client for %s: %w", p.Endpoint, err)
	}
	if p.Debug {
		client.TraceOn(os.Stdout)
	}
	res := &S3Store{Client: client, MaxSize: p.MaxSize}
	if res.MaxSize <= 0 {
		res.MaxSize = DefaultMaxSize
	}
	return res, nil
}

// Fetch reads the whole object from the bucket
func (s *S3Store) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.Client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.wrapErr(bucket, key, err)
	}
	defer func() {
		if cerr := obj.Close(); cerr != nil {
			log.Printf("[WARN] can't close s3 object %s/%s, %v", bucket, key, cerr)
		}
	}()

	maxSize := s.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(obj, maxSize+1))
	if err != nil {
		return nil, s.wrapErr(bucket, key, err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("object %s/%s is larger than %d bytes", bucket, key, maxSize)
	}
	log.Printf("[DEBUG] fetched %s/%s, %d bytes", bucket, key, len(data))
	return data, nil
}

// Listen subscribes to bucket notifications, minio specific. The channel is closed when ctx is done.
func (s *S3Store) Listen(ctx context.Context, bucket, prefix, suffix string, events []string) <-chan notification.Info {
	return s.Client.ListenBucketNotification(ctx, bucket, prefix, suffix, events)
}

func (s *S3Store) wrapErr(bucket, key string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
		return fmt.Errorf("can't get %s/%s: %w", bucket, key, ErrNotFound)
	}
	return fmt.Errorf("can't get %s/%s: %w", bucket, key, err)
}
