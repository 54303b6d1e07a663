package readers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"catalog-manager/core/storage"
	"catalog-manager/feature/catalog/ingest"

	"go.uber.org/zap"
)

// Location types handled by this reader.
const (
	TypeFile   = "file"
	TypeURL    = "url"
	TypeObject = "object"
)

// Reader dispatches location reads to the handler for the location's
// type. It implements ingest.LocationReader.
type Reader struct {
	client     storage.Client
	bucket     string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a reader. client and bucket back the "object" type and may
// be nil/empty when object-storage locations are not used.
func New(client storage.Client, bucket string, logger *zap.Logger) *Reader {
	return &Reader{
		client: client,
		bucket: bucket,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Read produces the item stream for one location. An unknown location
// type is a systemic failure: nothing can be read at all.
func (r *Reader) Read(ctx context.Context, locationType, target string) (<-chan ingest.ReadItem, error) {
	switch locationType {
	case TypeFile:
		return r.readFile(ctx, target)
	case TypeURL:
		return r.readURL(ctx, target)
	case TypeObject:
		return r.readObject(ctx, target)
	default:
		return nil, fmt.Errorf("unknown location type %q", locationType)
	}
}
