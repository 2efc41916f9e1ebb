package source

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"recon-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoadObject(t *testing.T) {
	ctx := context.Background()

	t.Run("CSV", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("GetObject", ctx, "recon", "in/left.csv", minio.GetObjectOptions{}).
			Return(io.NopCloser(strings.NewReader("id\n1\n2\n")), nil)

		ds, err := LoadObject(ctx, m, "recon", "in/left.csv", ReadOptions{})
		require.NoError(t, err)
		assert.Equal(t, "s3://recon/in/left.csv", ds.Name())
		assert.Equal(t, 2, ds.Len())
		m.AssertExpectations(t)
	})

	t.Run("UnsupportedExtension", func(t *testing.T) {
		m := new(mocks.Client)
		_, err := LoadObject(ctx, m, "recon", "in/left.parquet", ReadOptions{})
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		m.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("GetFails", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("GetObject", ctx, "recon", "left.csv", minio.GetObjectOptions{}).
			Return(nil, errors.New("no such key"))

		_, err := LoadObject(ctx, m, "recon", "left.csv", ReadOptions{})
		assert.ErrorContains(t, err, "no such key")
	})
}

func TestListObjects(t *testing.T) {
	ctx := context.Background()

	t.Run("FiltersReadable", func(t *testing.T) {
		ch := make(chan minio.ObjectInfo, 4)
		ch <- minio.ObjectInfo{Key: "in/"}
		ch <- minio.ObjectInfo{Key: "in/left.csv"}
		ch <- minio.ObjectInfo{Key: "in/notes.md"}
		ch <- minio.ObjectInfo{Key: "in/right.xlsx"}
		close(ch)

		m := new(mocks.Client)
		m.On("ListObjects", ctx, "recon", minio.ListObjectsOptions{Prefix: "in/", Recursive: true}).
			Return((<-chan minio.ObjectInfo)(ch))

		keys, err := ListObjects(ctx, m, "recon", "in/")
		require.NoError(t, err)
		assert.Equal(t, []string{"in/left.csv", "in/right.xlsx"}, keys)
	})

	t.Run("ListError", func(t *testing.T) {
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Err: errors.New("access denied")}
		close(ch)

		m := new(mocks.Client)
		m.On("ListObjects", ctx, "recon", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		_, err := ListObjects(ctx, m, "recon", "")
		assert.ErrorContains(t, err, "access denied")
	})
}
