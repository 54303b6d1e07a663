package readers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"catalog-manager/core/storage/mocks"
	"catalog-manager/feature/catalog/ingest"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func collect(t *testing.T, items <-chan ingest.ReadItem) []ingest.ReadItem {
	t.Helper()
	var out []ingest.ReadItem
	for item := range items {
		out = append(out, item)
	}
	return out
}

func TestRead_UnknownType(t *testing.T) {
	r := New(nil, "", zap.NewNop())
	_, err := r.Read(context.Background(), "carrier-pigeon", "somewhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown location type")
}

func TestReadFile(t *testing.T) {
	t.Run("SingleFile", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "service.yaml")
		require.NoError(t, os.WriteFile(path, []byte("kind: Component"), 0o644))

		r := New(nil, "", zap.NewNop())
		items, err := r.Read(context.Background(), TypeFile, path)
		require.NoError(t, err)

		got := collect(t, items)
		require.Len(t, got, 1)
		assert.NoError(t, got[0].Err)
		assert.Equal(t, "kind: Component", string(got[0].Data))
	})

	t.Run("DirectoryFiltersDescriptors", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("a"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("b"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))
		sub := filepath.Join(dir, "nested")
		require.NoError(t, os.Mkdir(sub, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(sub, "c.yaml"), []byte("c"), 0o644))

		r := New(nil, "", zap.NewNop())
		items, err := r.Read(context.Background(), TypeFile, dir)
		require.NoError(t, err)

		got := collect(t, items)
		assert.Len(t, got, 3)
		for _, item := range got {
			assert.NoError(t, item.Err)
		}
	})

	t.Run("MissingTargetIsSystemic", func(t *testing.T) {
		r := New(nil, "", zap.NewNop())
		_, err := r.Read(context.Background(), TypeFile, "/does/not/exist")
		assert.Error(t, err)
	})
}

func TestReadURL(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("kind: Component"))
		}))
		defer srv.Close()

		r := New(nil, "", zap.NewNop())
		items, err := r.Read(context.Background(), TypeURL, srv.URL)
		require.NoError(t, err)

		got := collect(t, items)
		require.Len(t, got, 1)
		assert.Equal(t, "kind: Component", string(got[0].Data))
	})

	t.Run("NotFoundIsSystemic", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		r := New(nil, "", zap.NewNop())
		_, err := r.Read(context.Background(), TypeURL, srv.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
	})
}

func TestReadObject(t *testing.T) {
	t.Run("ListsAndDownloadsDescriptors", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "catalog").Return(true, nil)

		objects := make(chan minio.ObjectInfo, 3)
		objects <- minio.ObjectInfo{Key: "team-a/service.yaml"}
		objects <- minio.ObjectInfo{Key: "team-a/readme.md"}
		objects <- minio.ObjectInfo{Key: "team-a/website.yml"}
		close(objects)
		client.On("ListObjects", mock.Anything, "catalog", mock.Anything).
			Return((<-chan minio.ObjectInfo)(objects))

		client.On("GetObject", mock.Anything, "catalog", "team-a/service.yaml", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte("svc"))), nil)
		client.On("GetObject", mock.Anything, "catalog", "team-a/website.yml", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte("web"))), nil)

		r := New(client, "catalog", zap.NewNop())
		items, err := r.Read(context.Background(), TypeObject, "team-a/")
		require.NoError(t, err)

		got := collect(t, items)
		require.Len(t, got, 2)
		assert.Equal(t, "svc", string(got[0].Data))
		assert.Equal(t, "web", string(got[1].Data))
		client.AssertExpectations(t)
	})

	t.Run("DownloadFailureIsPerItem", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "catalog").Return(true, nil)

		objects := make(chan minio.ObjectInfo, 1)
		objects <- minio.ObjectInfo{Key: "broken.yaml"}
		close(objects)
		client.On("ListObjects", mock.Anything, "catalog", mock.Anything).
			Return((<-chan minio.ObjectInfo)(objects))
		client.On("GetObject", mock.Anything, "catalog", "broken.yaml", mock.Anything).
			Return(nil, assert.AnError)

		r := New(client, "catalog", zap.NewNop())
		items, err := r.Read(context.Background(), TypeObject, "")
		require.NoError(t, err)

		got := collect(t, items)
		require.Len(t, got, 1)
		assert.Error(t, got[0].Err)
	})

	t.Run("MissingBucketIsSystemic", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "catalog").Return(false, nil)

		r := New(client, "catalog", zap.NewNop())
		_, err := r.Read(context.Background(), TypeObject, "")
		assert.Error(t, err)
	})

	t.Run("NoClientIsSystemic", func(t *testing.T) {
		r := New(nil, "catalog", zap.NewNop())
		_, err := r.Read(context.Background(), TypeObject, "")
		assert.Error(t, err)
	})
}
