// Package models defines the catalog domain types: the entity envelope
// exchanged with callers and parsers, and the GORM rows for the
// entities, locations and location_update_log tables.
package models
