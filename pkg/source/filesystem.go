package source

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// FilesystemSource reads the payload from a local file.
type FilesystemSource struct {
	path string
}

// NewFilesystemSource creates a new filesystem-backed source.
// The file is not touched until the first Read.
func NewFilesystemSource(path string) *FilesystemSource {
	return &FilesystemSource{path: path}
}

func (f *FilesystemSource) Name() string {
	return filepath.Base(f.path)
}

func (f *FilesystemSource) Path() string {
	return f.path
}

func (f *FilesystemSource) Read(ctx context.Context) (data []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, &ReadError{Name: f.path, Err: err}
	}

	file, err := os.Open(f.path)
	if err != nil {
		return nil, &ReadError{Name: f.path, Err: err}
	}
	defer func() {
		if errClose := file.Close(); errClose != nil {
			err = multierr.Append(err, &ReadError{Name: f.path, Err: errClose})
		}
	}()

	data, err = io.ReadAll(file)
	if err != nil {
		return nil, &ReadError{Name: f.path, Err: err}
	}
	return data, nil
}

func (f *FilesystemSource) Exists(_ context.Context) (bool, error) {
	info, err := os.Stat(f.path)
	if os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (f *FilesystemSource) Close() error {
	return nil
}
