package catalog

import (
	"errors"
	"fmt"

	"catalog-manager/feature/catalog/models"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddEntityRequest describes a brand-new entity to insert.
type AddEntityRequest struct {
	// Entity is the entity to store. Store-managed metadata fields
	// (uid, etag, generation) are ignored and recomputed.
	Entity *models.Entity
	// LocationID optionally ties the entity to the location it was read from.
	LocationID *string
}

// UpdateEntityRequest describes an update of an existing entity. Which
// identity fields are present in Entity.Metadata selects the update
// strategy (see Store.UpdateEntity).
type UpdateEntityRequest struct {
	Entity     *models.Entity
	LocationID *string
}

// EntityResponse is a stored entity together with its owning location.
type EntityResponse struct {
	Entity     *models.Entity `json:"entity"`
	LocationID *string        `json:"location_id,omitempty"`
}

// LocationSpec describes a location to register.
type LocationSpec struct {
	// Type identifies which reader handles the location (e.g. "file", "url").
	Type string `json:"type"`
	// Target is the address or path passed to the reader.
	Target string `json:"target"`
}

// Store provides transactional CRUD over entities and locations.
//
// It holds no in-process locks: correctness under concurrent callers
// relies on the database's transactional isolation plus the per-row
// generation check performed by UpdateEntity. Entity reads and writes
// take an explicit tx so callers control the transaction boundary;
// location and update-log operations are single statements and manage
// their own scope.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a new entity store.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Transaction runs fn inside one database transaction. A unique
// constraint violation surfacing from fn is translated to a
// ConflictError; all other errors propagate unchanged.
func (s *Store) Transaction(fn func(tx *gorm.DB) error) error {
	err := s.db.Transaction(fn)
	if err != nil && isUniqueViolation(err) {
		return conflictf("unique constraint violated: %v", err)
	}
	return err
}

// AddEntity inserts a brand-new entity with a fresh uid and generation 1.
// A (name, namespace) collision fails with ConflictError.
func (s *Store) AddEntity(tx *gorm.DB, req AddEntityRequest) (*EntityResponse, error) {
	row, err := ToRow(req.Entity, req.LocationID)
	if err != nil {
		return nil, err
	}
	row.ID = uuid.NewString()
	row.Generation = 1

	if err := tx.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, conflictf("entity %s already exists", entityRef(row.Name, row.Namespace))
		}
		return nil, fmt.Errorf("failed to insert entity: %w", err)
	}

	// The read-back doubles as a consistency check; an absent row here
	// means another writer removed it inside our window.
	return s.readBack(tx, "id = ?", []any{row.ID}, row.ID)
}

// UpdateEntity applies an update through exactly one of four strategies,
// selected by which identity fields are present in the request metadata,
// in this priority order:
//
//  1. uid + generation: conditional update on both; the optimistic
//     concurrency check. A stale generation loses the race.
//  2. uid only: unconditional update, generation bumped by 1.
//  3. name (+ optional namespace) + generation: conditional on all three.
//  4. name only: reads the current generation first, then performs the
//     same conditional write as strategy 1. A writer landing between the
//     read and the write makes the conditional update miss; that narrow
//     race is reported as a ConflictError, not retried.
//
// Every strategy bumps generation by exactly 1 and re-reads the row
// after the write; a missing row at that point (a concurrent delete
// racing the update) is also a ConflictError.
func (s *Store) UpdateEntity(tx *gorm.DB, req UpdateEntityRequest) (*EntityResponse, error) {
	row, err := ToRow(req.Entity, req.LocationID)
	if err != nil {
		return nil, err
	}

	md := req.Entity.Metadata
	switch {
	case md != nil && md.UID != "" && md.Generation > 0:
		return s.updateByUIDAndGeneration(tx, row, md.UID, md.Generation)
	case md != nil && md.UID != "":
		return s.updateByUID(tx, row, md.UID)
	case md != nil && md.Name != "" && md.Generation > 0:
		return s.updateByNameAndGeneration(tx, row, md.Generation)
	case md != nil && md.Name != "":
		return s.updateByName(tx, row)
	default:
		return nil, &InvalidInputError{Reason: "cannot update entity that has neither uid nor name"}
	}
}

func (s *Store) updateByUIDAndGeneration(tx *gorm.DB, row models.EntityRow, uid string, generation int64) (*EntityResponse, error) {
	updates := rowUpdates(row)
	updates["generation"] = generation + 1

	res := tx.Model(&models.EntityRow{}).
		Where("id = ? AND generation = ?", uid, generation).
		Updates(updates)
	if res.Error != nil {
		return nil, translateWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, conflictf("no entity matching uid %q, generation %d", uid, generation)
	}

	return s.readBack(tx, "id = ? AND generation = ?", []any{uid, generation + 1}, uid)
}

func (s *Store) updateByUID(tx *gorm.DB, row models.EntityRow, uid string) (*EntityResponse, error) {
	updates := rowUpdates(row)
	updates["generation"] = gorm.Expr("generation + 1")

	res := tx.Model(&models.EntityRow{}).
		Where("id = ?", uid).
		Updates(updates)
	if res.Error != nil {
		return nil, translateWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, conflictf("no entity matching uid %q", uid)
	}

	return s.readBack(tx, "id = ?", []any{uid}, uid)
}

func (s *Store) updateByNameAndGeneration(tx *gorm.DB, row models.EntityRow, generation int64) (*EntityResponse, error) {
	updates := rowUpdates(row)
	updates["generation"] = generation + 1

	res := tx.Model(&models.EntityRow{}).
		Where("name = ? AND namespace = ? AND generation = ?", row.Name, row.Namespace, generation).
		Updates(updates)
	if res.Error != nil {
		return nil, translateWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, conflictf("no entity matching %s, generation %d", entityRef(row.Name, row.Namespace), generation)
	}

	return s.readBack(tx,
		"name = ? AND namespace = ? AND generation = ?",
		[]any{row.Name, row.Namespace, generation + 1},
		entityRef(row.Name, row.Namespace))
}

func (s *Store) updateByName(tx *gorm.DB, row models.EntityRow) (*EntityResponse, error) {
	// Capture the current generation first, then write conditionally on
	// it. This is a read-then-conditional-write, not a single atomic
	// statement: a concurrent writer between the two statements makes
	// the update miss and surfaces as a conflict.
	var current []models.EntityRow
	if err := tx.Where("name = ? AND namespace = ?", row.Name, row.Namespace).
		Limit(2).Find(&current).Error; err != nil {
		return nil, fmt.Errorf("failed to read entity: %w", err)
	}
	if len(current) != 1 {
		return nil, conflictf("no entity matching %s", entityRef(row.Name, row.Namespace))
	}
	target := current[0]

	updates := rowUpdates(row)
	updates["generation"] = target.Generation + 1

	res := tx.Model(&models.EntityRow{}).
		Where("id = ? AND generation = ?", target.ID, target.Generation).
		Updates(updates)
	if res.Error != nil {
		return nil, translateWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, conflictf("failed to update entity %s", entityRef(row.Name, row.Namespace))
	}

	return s.readBack(tx, "id = ? AND generation = ?", []any{target.ID, target.Generation + 1}, target.ID)
}

// Entity performs a point lookup by name and namespace. It returns
// (nil, nil) when no row matches, and also when more than one row
// matches, which the uniqueness constraint should prevent.
func (s *Store) Entity(tx *gorm.DB, name string, namespace *string) (*EntityResponse, error) {
	var rows []models.EntityRow
	if err := tx.Where("name = ? AND namespace = ?", name, namespaceKey(namespace)).
		Limit(2).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read entity: %w", err)
	}
	if len(rows) != 1 {
		return nil, nil
	}
	return toResponse(rows[0])
}

// Entities returns all stored entities ordered by (namespace, name).
func (s *Store) Entities(tx *gorm.DB) ([]EntityResponse, error) {
	var rows []models.EntityRow
	if err := tx.Order("namespace ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}

	responses := make([]EntityResponse, 0, len(rows))
	for _, row := range rows {
		resp, err := toResponse(row)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// AddLocation registers a location, keyed idempotently by target: if the
// target is already present the pre-existing row is returned unchanged.
// It manages its own transaction.
func (s *Store) AddLocation(spec LocationSpec) (models.LocationRow, error) {
	var row models.LocationRow
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing []models.LocationRow
		if err := tx.Where("target = ?", spec.Target).Limit(1).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to look up location: %w", err)
		}
		if len(existing) == 1 {
			row = existing[0]
			return nil
		}

		row = models.LocationRow{
			ID:     uuid.NewString(),
			Type:   spec.Type,
			Target: spec.Target,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert location: %w", err)
		}
		s.logger.Info("Registered location",
			zap.String("id", row.ID),
			zap.String("type", row.Type),
			zap.String("target", row.Target),
		)
		return nil
	})
	return row, err
}

// RemoveLocation deletes a location by id.
func (s *Store) RemoveLocation(id string) error {
	res := s.db.Where("id = ?", id).Delete(&models.LocationRow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete location: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundf("location %q", id)
	}
	return nil
}

// Location returns a location by id.
func (s *Store) Location(id string) (models.LocationRow, error) {
	var rows []models.LocationRow
	if err := s.db.Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return models.LocationRow{}, fmt.Errorf("failed to read location: %w", err)
	}
	if len(rows) == 0 {
		return models.LocationRow{}, notFoundf("location %q", id)
	}
	return rows[0], nil
}

// Locations returns all registered locations.
func (s *Store) Locations() ([]models.LocationRow, error) {
	var rows []models.LocationRow
	if err := s.db.Order("target ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return rows, nil
}

// AddLocationUpdateLogEvent appends one refresh-outcome record to the
// update log. The log is append-only; rows are never mutated.
func (s *Store) AddLocationUpdateLogEvent(locationID string, status models.UpdateLogStatus, entityName, message *string) error {
	row := models.LocationUpdateLogRow{
		Status:     status,
		LocationID: locationID,
		EntityName: entityName,
		Message:    message,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to append update log event: %w", err)
	}
	return nil
}

// LocationUpdateLogEvents returns the update-log history for a location,
// newest first.
func (s *Store) LocationUpdateLogEvents(locationID string) ([]models.LocationUpdateLogRow, error) {
	var rows []models.LocationUpdateLogRow
	if err := s.db.Where("location_id = ?", locationID).
		Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read update log: %w", err)
	}
	return rows, nil
}

// readBack re-reads the freshly written row. All write paths report a
// conflict if the row is gone, which protects against a concurrent
// delete racing the write.
func (s *Store) readBack(tx *gorm.DB, query string, args []any, ref string) (*EntityResponse, error) {
	var rows []models.EntityRow
	if err := tx.Where(query, args...).Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read back entity: %w", err)
	}
	if len(rows) != 1 {
		return nil, conflictf("entity %s not found after write", ref)
	}
	return toResponse(rows[0])
}

// rowUpdates maps the serialized row onto the columns every update
// strategy rewrites. Generation is set separately per strategy.
func rowUpdates(row models.EntityRow) map[string]any {
	return map[string]any{
		"location_id": row.LocationID,
		"etag":        row.Etag,
		"api_version": row.APIVersion,
		"kind":        row.Kind,
		"name":        row.Name,
		"namespace":   row.Namespace,
		"metadata":    row.Metadata,
		"spec":        row.Spec,
	}
}

func toResponse(row models.EntityRow) (*EntityResponse, error) {
	entity, err := FromRow(row)
	if err != nil {
		return nil, err
	}
	return &EntityResponse{Entity: entity, LocationID: row.LocationID}, nil
}

func translateWriteError(err error) error {
	if isUniqueViolation(err) {
		return conflictf("unique constraint violated: %v", err)
	}
	return fmt.Errorf("failed to update entity: %w", err)
}

// isUniqueViolation reports whether err is a uniqueness constraint
// violation. It checks GORM's translated sentinel first and falls back
// to the raw MySQL ER_DUP_ENTRY code (1062).
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// entityRef formats a (name, namespace) pair for error messages.
func entityRef(name, namespace string) string {
	if namespace == "" {
		return fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("%q in namespace %q", name, namespace)
}
