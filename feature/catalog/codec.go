package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"catalog-manager/feature/catalog/models"

	"github.com/google/uuid"
)

// ToRow serializes an entity into a flat storage row.
//
// The metadata blob excludes uid, etag and generation: those are
// store-managed and live in their own columns, recomputed on every
// write. A fresh etag is generated per write; it is recorded for audit
// purposes but not yet validated on update.
func ToRow(entity *models.Entity, locationID *string) (models.EntityRow, error) {
	row := models.EntityRow{
		LocationID: locationID,
		Etag:       newEtag(),
		APIVersion: entity.APIVersion,
		Kind:       entity.Kind,
	}

	if md := entity.Metadata; md != nil {
		row.Name = md.Name
		row.Namespace = namespaceKey(md.Namespace)

		// Strip the store-managed fields before serializing; they must
		// never round-trip through caller-supplied metadata.
		stripped := md.Clone()
		stripped.UID = ""
		stripped.Etag = ""
		stripped.Generation = 0

		blob, err := json.Marshal(stripped)
		if err != nil {
			return models.EntityRow{}, fmt.Errorf("failed to serialize entity metadata: %w", err)
		}
		s := string(blob)
		row.Metadata = &s
	}

	if entity.Spec != nil {
		blob, err := json.Marshal(entity.Spec)
		if err != nil {
			return models.EntityRow{}, fmt.Errorf("failed to serialize entity spec: %w", err)
		}
		s := string(blob)
		row.Spec = &s
	}

	return row, nil
}

// FromRow reconstructs an entity from a storage row.
//
// The metadata blob is overlaid first, then uid, etag and generation
// are taken from the row columns: row-derived values always win over
// anything that might be embedded in the stored blob.
func FromRow(row models.EntityRow) (*models.Entity, error) {
	entity := &models.Entity{
		APIVersion: row.APIVersion,
		Kind:       row.Kind,
	}

	md := &models.Metadata{
		Name:      row.Name,
		Namespace: namespaceFromKey(row.Namespace),
	}
	if row.Metadata != nil {
		if err := json.Unmarshal([]byte(*row.Metadata), md); err != nil {
			return nil, fmt.Errorf("failed to deserialize entity metadata: %w", err)
		}
	}
	md.UID = row.ID
	md.Etag = row.Etag
	md.Generation = row.Generation
	entity.Metadata = md

	if row.Spec != nil {
		var spec map[string]any
		if err := json.Unmarshal([]byte(*row.Spec), &spec); err != nil {
			return nil, fmt.Errorf("failed to deserialize entity spec: %w", err)
		}
		entity.Spec = spec
	}

	return entity, nil
}

// newEtag returns a fresh random concurrency token.
func newEtag() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// namespaceKey maps the optional namespace to its column value. The
// empty string is the "no namespace" partition (see models.EntityRow).
func namespaceKey(namespace *string) string {
	if namespace == nil {
		return ""
	}
	return *namespace
}

// namespaceFromKey is the inverse of namespaceKey.
func namespaceFromKey(key string) *string {
	if key == "" {
		return nil
	}
	return &key
}
