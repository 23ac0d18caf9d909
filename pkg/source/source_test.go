package source

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Filesystem(t *testing.T) {
	ctx := context.Background()
	p := writeFile(t, "firmware.bin", []byte("fs"))

	src, err := Open(ctx, p)
	require.NoError(t, err)
	defer src.Close()

	assert.IsType(t, &FilesystemSource{}, src)
	assert.Equal(t, "firmware.bin", src.Name())
	data, err := src.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("fs"), data)
}

func TestOpen_FileURL(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.hex"), []byte("blob"), 0600))

	location := (&url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(dir, "app.hex"))}).String()
	src, err := Open(ctx, location)
	require.NoError(t, err)
	defer src.Close()

	assert.IsType(t, &BlobSource{}, src)
	assert.Equal(t, "app.hex", src.Name())
	data, err := src.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), data)
}

func TestOpen_Invalid(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, "")
	require.Error(t, err)

	_, err = Open(ctx, "file:///tmp/")
	require.Error(t, err)

	_, err = Open(ctx, "nosuchscheme:///tmp/a.bin")
	require.Error(t, err)
}

func TestOpen_FileURL_MissingDirectory(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "later")

	location := (&url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(dir, "app.bin"))}).String()
	src, err := Open(ctx, location)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Read(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReadFailed))

	ok, err := src.Exists(ctx)
	assert.False(t, ok && err == nil)

	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.bin"), []byte("late"), 0600))

	data, err := src.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("late"), data)

	ok, err = src.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}
