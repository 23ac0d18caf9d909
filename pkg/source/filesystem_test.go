package source

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0600))
	return p
}

func TestFilesystemSource_Read(t *testing.T) {
	ctx := context.Background()
	src := NewFilesystemSource(writeFile(t, "firmware.bin", []byte("0123456789")))

	data, err := src.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("0123456789"), data)
	assert.Equal(t, "firmware.bin", src.Name())
}

func TestFilesystemSource_Read_Fresh(t *testing.T) {
	ctx := context.Background()
	p := writeFile(t, "firmware.bin", []byte("v1"))
	src := NewFilesystemSource(p)

	data, err := src.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), data)

	require.NoError(t, os.WriteFile(p, []byte("v2-longer"), 0600))

	data, err = src.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2-longer"), data)
}

func TestFilesystemSource_Read_NotFound(t *testing.T) {
	ctx := context.Background()
	src := NewFilesystemSource(filepath.Join(t.TempDir(), "missing.bin"))

	_, err := src.Read(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReadFailed))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
	assert.Contains(t, readErr.Name, "missing.bin")
}

func TestFilesystemSource_Read_Directory(t *testing.T) {
	ctx := context.Background()
	src := NewFilesystemSource(t.TempDir())

	_, err := src.Read(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReadFailed))
}

func TestFilesystemSource_Read_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := NewFilesystemSource(writeFile(t, "firmware.bin", []byte("x")))

	_, err := src.Read(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReadFailed))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFilesystemSource_Exists(t *testing.T) {
	ctx := context.Background()

	ok, err := NewFilesystemSource(writeFile(t, "a.bin", []byte("a"))).Exists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = NewFilesystemSource(filepath.Join(t.TempDir(), "missing.bin")).Exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = NewFilesystemSource(t.TempDir()).Exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilesystemSource_ConcurrentReads(t *testing.T) {
	ctx := context.Background()
	src := NewFilesystemSource(writeFile(t, "firmware.bin", []byte("payload")))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := src.Read(ctx)
			assert.NoError(t, err)
			assert.Equal(t, []byte("payload"), data)
		}()
	}
	wg.Wait()
}

func TestFilesystemSource_Close(t *testing.T) {
	require.NoError(t, NewFilesystemSource("x.bin").Close())
}
