// Package database handles database connections and schema migration.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a pooled connection to the database and
// verifies it with a ping. Driver duplicate-key errors are translated to
// gorm.ErrDuplicatedKey so the catalog store can classify conflicts.
//
// # Migration
//
// Migrate auto-migrates the catalog tables (entities, locations,
// location_update_log), including the uniqueness constraints the store
// relies on: (name, namespace) for entities and target for locations.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	if err := database.Migrate(db); err != nil { ... }
package database
