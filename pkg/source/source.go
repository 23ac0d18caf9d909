package source

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
)

// ErrReadFailed marks any failure to produce the payload bytes
var ErrReadFailed = errors.New("failed to read source")

// Source defines the contract for the payload location served by the handler.
// Implementations must be safe for concurrent use and must not cache: every
// Read returns the bytes as they are at the moment of the call.
type Source interface {
	// Name returns the file name used for content type inference.
	Name() string

	// Read returns the full payload.
	// Errors wrap ErrReadFailed.
	Read(ctx context.Context) ([]byte, error)

	// Exists reports whether the payload is currently present.
	Exists(ctx context.Context) (bool, error)

	// Close releases any resources held by the source.
	Close() error
}

// Open returns a filesystem source for plain paths and a blob source for
// locations carrying a URL scheme, e.g. "file:///srv/fw/app.bin".
// Neither touches the payload, a missing file is reported by Read.
func Open(_ context.Context, location string) (Source, error) {
	if location == "" {
		return nil, errors.New("empty source location")
	}
	if !strings.Contains(location, "://") {
		return NewFilesystemSource(location), nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid source location %q", location)
	}
	dir, key := path.Split(u.Path)
	if key == "" {
		return nil, errors.Errorf("source location %q does not name a file", location)
	}
	if !blob.DefaultURLMux().ValidBucketScheme(u.Scheme) {
		return nil, errors.Errorf("unsupported scheme in source location %q", location)
	}
	u.Path = dir
	return NewBlobSource(u.String(), key), nil
}

// ReadError carries the cause of a failed read. It matches ErrReadFailed and
// unwraps to the underlying error.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return "failed to read source " + e.Name + ": " + e.Err.Error()
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

func (e *ReadError) Is(target error) bool {
	return target == ErrReadFailed //nolint:errorlint
}
