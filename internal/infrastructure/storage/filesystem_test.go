package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFileSystemStorage(t *testing.T) (*FileSystemStorage, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "documents")
	s, err := NewFileSystemStorage(root, zap.NewNop())
	require.NoError(t, err)
	return s, root
}

func TestNewFileSystemStorage(t *testing.T) {
	_, err := NewFileSystemStorage("", nil)
	assert.Error(t, err)

	_, root := newTestFileSystemStorage(t)
	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileSystemStorage_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, root := newTestFileSystemStorage(t)
	key := "tenant-1/PACK/2026/03/PACK-202603-00001.pdf"

	path, err := s.Put(ctx, key, []byte("%PDF-1.4 first"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, key, path)

	onDisk, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 first", string(onDisk))

	_, err = s.Put(ctx, key, []byte("%PDF-1.4 second"), "application/pdf")
	require.NoError(t, err)
	data, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 second", string(data))

	entries, err := os.ReadDir(filepath.Dir(filepath.Join(root, filepath.FromSlash(key))))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.NoError(t, s.Delete(ctx, key))
}

func TestFileSystemStorage_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestFileSystemStorage(t)

	for _, key := range []string{
		"",
		"../outside.pdf",
		"tenant/../../outside.pdf",
		"/etc/passwd",
		`tenant\..\..\outside.pdf`,
	} {
		t.Run(key, func(t *testing.T) {
			_, err := s.Put(ctx, key, []byte("x"), "")
			assert.Error(t, err)
			_, err = s.Get(ctx, key)
			assert.Error(t, err)
		})
	}
}

func TestFileSystemStorage_CancelledContext(t *testing.T) {
	s, _ := newTestFileSystemStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Put(ctx, "a/b.pdf", []byte("x"), "")
	assert.ErrorIs(t, err, context.Canceled)
}
