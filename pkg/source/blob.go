package source

import (
	"context"
	"path"
	"sync"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Import the local filesystem driver for file:// locations
	_ "gocloud.dev/blob/fileblob"
)

// BlobSource reads the payload through gocloud.dev/blob.
// The bucket is opened on first use, so a directory that does not exist yet
// surfaces as a failed read instead of a startup error.
type BlobSource struct {
	bucketURL string
	key       string
	bucket    *blob.Bucket
	mu        sync.Mutex
}

// NewBlobSource prepares a source for key inside the bucket at bucketURL,
// e.g. "file:///srv/fw".
func NewBlobSource(bucketURL, key string) *BlobSource {
	return &BlobSource{
		bucketURL: bucketURL,
		key:       key,
	}
}

// NewBlobSourceFromBucket creates a new blob-backed source from an existing bucket.
// This is useful for testing with memblob.
func NewBlobSourceFromBucket(bucket *blob.Bucket, key string) *BlobSource {
	return &BlobSource{
		bucket: bucket,
		key:    key,
	}
}

func (b *BlobSource) Name() string {
	return path.Base(b.key)
}

func (b *BlobSource) Read(ctx context.Context) ([]byte, error) {
	bucket, err := b.openBucket(ctx)
	if err != nil {
		return nil, &ReadError{Name: b.key, Err: err}
	}
	data, err := bucket.ReadAll(ctx, b.key)
	if err != nil {
		return nil, &ReadError{Name: b.key, Err: err}
	}
	return data, nil
}

func (b *BlobSource) Exists(ctx context.Context) (bool, error) {
	bucket, err := b.openBucket(ctx)
	if err != nil {
		return false, err
	}
	ok, err := bucket.Exists(ctx, b.key)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return false, err
	}
	return ok, nil
}

func (b *BlobSource) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bucket == nil {
		return nil
	}
	err := b.bucket.Close()
	b.bucket = nil
	return err
}

func (b *BlobSource) openBucket(ctx context.Context) (*blob.Bucket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bucket != nil {
		return b.bucket, nil
	}
	bucket, err := blob.OpenBucket(ctx, b.bucketURL)
	if err != nil {
		return nil, err
	}
	b.bucket = bucket
	return bucket, nil
}
