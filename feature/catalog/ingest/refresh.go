package ingest

import (
	"context"
	"fmt"

	"catalog-manager/feature/catalog"
	"catalog-manager/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RefreshAll re-reads every registered location and merges what it finds
// into the catalog.
//
// Fault isolation: a bad byte stream, an unparseable item, or a write
// conflict never aborts the refresh of siblings. Per-item failures
// become FAIL log events; a reader that fails systemically becomes one
// location-level FAIL event and the loop moves on. Only systemic store
// failures (listing the locations, a broken log append) propagate to
// the caller.
//
// Locations and items are processed sequentially. That is a simplicity
// choice, not a correctness requirement: lost updates are prevented by
// the store's per-row generation check, not by program order. No store
// transaction is held open across a reader or parser invocation; each
// item is persisted in its own tightly scoped transaction, so ctx
// cancellation at the loop boundaries never corrupts partial progress.
func RefreshAll(ctx context.Context, cat Catalog, reader LocationReader, parser DescriptorParser, logger *zap.Logger) error {
	locations, err := cat.Locations()
	if err != nil {
		return fmt.Errorf("failed to list locations: %w", err)
	}

	for _, location := range locations {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := refreshLocation(ctx, cat, reader, parser, location, logger); err != nil {
			return err
		}
	}
	return nil
}

// refreshLocation processes one location end to end. Its error return is
// reserved for systemic failures (the update log itself being
// unwritable); everything data-level is absorbed into log events.
func refreshLocation(ctx context.Context, cat Catalog, reader LocationReader, parser DescriptorParser, location models.LocationRow, logger *zap.Logger) error {
	l := logger.With(
		zap.String("location_id", location.ID),
		zap.String("type", location.Type),
		zap.String("target", location.Target),
	)
	l.Info("Refreshing location")

	items, err := reader.Read(ctx, location.Type, location.Target)
	if err != nil {
		l.Warn("Location read failed", zap.Error(err))
		return logFail(cat, location.ID, "", err.Error())
	}

	for item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if item.Err != nil {
			// Per-item read errors are logged and skipped; they do not
			// abort the rest of the location.
			l.Warn("Skipping unreadable item", zap.Error(item.Err))
			continue
		}

		entityName, err := processItem(cat, parser, location, item.Data)
		if err != nil {
			l.Warn("Failed to refresh entity",
				zap.String("entity", entityName),
				zap.Error(err),
			)
			if logErr := logFail(cat, location.ID, entityName, err.Error()); logErr != nil {
				return logErr
			}
			continue
		}

		l.Debug("Refreshed entity", zap.String("entity", entityName))
		if logErr := logSuccess(cat, location.ID, entityName); logErr != nil {
			return logErr
		}
	}

	// One location-level SUCCESS event closes every attempt that got
	// through the item loop, even if individual items failed.
	return logSuccess(cat, location.ID, "")
}

// processItem parses one payload and persists the result. It returns the
// entity name it managed to attribute the attempt to, which may be set
// even when err is non-nil (a parse failure that recovered the name).
func processItem(cat Catalog, parser DescriptorParser, location models.LocationRow, payload []byte) (string, error) {
	entity, err := parser.Parse(payload)
	if err != nil {
		return entityNameFromError(err), err
	}
	if entity.Metadata == nil || entity.Metadata.Name == "" {
		return "", fmt.Errorf("parsed entity has no name")
	}
	name := entity.Metadata.Name

	err = cat.Transaction(func(tx *gorm.DB) error {
		existing, err := cat.Entity(tx, name, entity.Metadata.Namespace)
		if err != nil {
			return err
		}
		if existing == nil {
			_, err := cat.AddEntity(tx, catalog.AddEntityRequest{
				Entity:     entity,
				LocationID: &location.ID,
			})
			return err
		}

		// Merging pins the stored uid and generation, so the update goes
		// through the uid+generation strategy and the optimistic
		// concurrency check.
		merged := catalog.Merge(existing.Entity, entity)
		_, err = cat.UpdateEntity(tx, catalog.UpdateEntityRequest{
			Entity:     merged,
			LocationID: &location.ID,
		})
		return err
	})
	return name, err
}

func logSuccess(cat Catalog, locationID, entityName string) error {
	return appendEvent(cat, locationID, models.StatusSuccess, entityName, "")
}

func logFail(cat Catalog, locationID, entityName, message string) error {
	return appendEvent(cat, locationID, models.StatusFail, entityName, message)
}

func appendEvent(cat Catalog, locationID string, status models.UpdateLogStatus, entityName, message string) error {
	var namePtr, messagePtr *string
	if entityName != "" {
		namePtr = &entityName
	}
	if message != "" {
		messagePtr = &message
	}
	if err := cat.AddLocationUpdateLogEvent(locationID, status, namePtr, messagePtr); err != nil {
		return fmt.Errorf("failed to append update log event: %w", err)
	}
	return nil
}
