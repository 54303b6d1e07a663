package readers

import (
	"context"
	"fmt"
	"io"

	"catalog-manager/feature/catalog/ingest"

	"github.com/minio/minio-go/v7"
)

// readObject reads descriptors from the configured object-storage
// bucket. The target is a key prefix; every descriptor object under it
// becomes one item. Listing is a single paginated pass; per-object
// download failures are emitted as error items.
func (r *Reader) readObject(ctx context.Context, target string) (<-chan ingest.ReadItem, error) {
	if r.client == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}

	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", r.bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", r.bucket)
	}

	items := make(chan ingest.ReadItem)
	go func() {
		defer close(items)

		objects := r.client.ListObjects(ctx, r.bucket, minio.ListObjectsOptions{
			Prefix:    target,
			Recursive: true,
		})
		for object := range objects {
			var item ingest.ReadItem
			switch {
			case object.Err != nil:
				item = ingest.ReadItem{Err: fmt.Errorf("failed to list objects under %q: %w", target, object.Err)}
			case !isDescriptorFile(object.Key):
				continue
			default:
				item = r.downloadObject(ctx, object.Key)
			}
			select {
			case items <- item:
			case <-ctx.Done():
				return
			}
		}
	}()
	return items, nil
}

func (r *Reader) downloadObject(ctx context.Context, key string) ingest.ReadItem {
	obj, err := r.client.GetObject(ctx, r.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return ingest.ReadItem{Err: fmt.Errorf("failed to get object %q: %w", key, err)}
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return ingest.ReadItem{Err: fmt.Errorf("failed to read object %q: %w", key, err)}
	}
	return ingest.ReadItem{Data: data}
}
