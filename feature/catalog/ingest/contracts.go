package ingest

import (
	"context"
	"errors"

	"catalog-manager/feature/catalog"
	"catalog-manager/feature/catalog/models"

	"gorm.io/gorm"
)

// ReadItem is one item produced by a location reader: either a raw
// descriptor payload or a per-item read failure. A bad item never aborts
// the stream; only a systemic failure (target unreachable) may fail the
// Read call itself.
type ReadItem struct {
	Data []byte
	Err  error
}

// LocationReader reads raw descriptor payloads from a location target.
// The returned channel is the lazy item stream; it is closed when the
// location is exhausted.
type LocationReader interface {
	Read(ctx context.Context, locationType, target string) (<-chan ReadItem, error)
}

// DescriptorParser turns a raw payload into a structured entity.
// Failures should be (or wrap) a *ParseError so the refresh loop can
// attribute them to an entity name in the update log.
type DescriptorParser interface {
	Parse(payload []byte) (*models.Entity, error)
}

// ParseError is a descriptor parse failure. EntityName is set when the
// parser got far enough to recover the name of the entity it was
// parsing, for log attribution.
type ParseError struct {
	EntityName string
	Err        error
}

func (e *ParseError) Error() string {
	if e.EntityName != "" {
		return "failed to parse entity " + e.EntityName + ": " + e.Err.Error()
	}
	return "failed to parse entity: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// entityNameFromError extracts the entity name from a parse failure,
// when the error carries one.
func entityNameFromError(err error) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.EntityName
	}
	return ""
}

// Catalog is the slice of the entity store the refresh loop drives.
type Catalog interface {
	Transaction(fn func(tx *gorm.DB) error) error
	Locations() ([]models.LocationRow, error)
	Entity(tx *gorm.DB, name string, namespace *string) (*catalog.EntityResponse, error)
	AddEntity(tx *gorm.DB, req catalog.AddEntityRequest) (*catalog.EntityResponse, error)
	UpdateEntity(tx *gorm.DB, req catalog.UpdateEntityRequest) (*catalog.EntityResponse, error)
	AddLocationUpdateLogEvent(locationID string, status models.UpdateLogStatus, entityName, message *string) error
}
