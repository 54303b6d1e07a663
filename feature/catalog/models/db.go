package models

import "time"

// UpdateLogStatus is the outcome of one refresh attempt.
type UpdateLogStatus string

const (
	// StatusSuccess marks a successful refresh attempt.
	StatusSuccess UpdateLogStatus = "SUCCESS"
	// StatusFail marks a failed refresh attempt.
	StatusFail UpdateLogStatus = "FAIL"
)

// EntityRow represents the 'entities' table.
//
// The metadata and spec blobs are stored as opaque JSON. The uid (id
// column), etag and generation are flat columns so that the optimistic
// concurrency update can target them in a single conditional statement.
// Namespace is stored as a non-null string where the empty string
// represents the "no namespace" partition: MySQL treats NULL values in
// a unique index as always-distinct, which would silently break the
// (name, namespace) uniqueness invariant.
type EntityRow struct {
	ID         string  `gorm:"column:id;primaryKey;size:36"`
	LocationID *string `gorm:"column:location_id;size:36"`
	Etag       string  `gorm:"column:etag;size:32;not null"`
	Generation int64   `gorm:"column:generation;not null"`
	APIVersion string  `gorm:"column:api_version;size:64;not null"`
	Kind       string  `gorm:"column:kind;size:100;not null"`
	Name       string  `gorm:"column:name;size:255;not null;uniqueIndex:idx_entities_name_namespace"`
	Namespace  string  `gorm:"column:namespace;size:255;not null;default:'';uniqueIndex:idx_entities_name_namespace"`
	Metadata   *string `gorm:"column:metadata;type:text"`
	Spec       *string `gorm:"column:spec;type:text"`
}

// TableName overrides the table name.
func (EntityRow) TableName() string {
	return "entities"
}

// LocationRow represents the 'locations' table: an external source the
// refresh loop polls. Target is unique so re-adding is idempotent.
type LocationRow struct {
	ID     string `gorm:"column:id;primaryKey;size:36"`
	Type   string `gorm:"column:type;size:64;not null"`
	Target string `gorm:"column:target;size:512;not null;uniqueIndex:idx_locations_target"`
}

// TableName overrides the table name.
func (LocationRow) TableName() string {
	return "locations"
}

// LocationUpdateLogRow represents the 'location_update_log' table, an
// append-only audit trail of refresh attempt outcomes. Rows are never
// updated or deleted by this service.
type LocationUpdateLogRow struct {
	ID         uint            `gorm:"column:id;primaryKey;autoIncrement"`
	Status     UpdateLogStatus `gorm:"column:status;size:7;not null"`
	LocationID string          `gorm:"column:location_id;size:36;not null;index:idx_location_update_log_location"`
	EntityName *string         `gorm:"column:entity_name;size:255"`
	Message    *string         `gorm:"column:message;type:text"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the table name.
func (LocationUpdateLogRow) TableName() string {
	return "location_update_log"
}
