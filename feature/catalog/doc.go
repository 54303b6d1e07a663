// Package catalog implements the persistence core of the software
// catalog: versioned entity storage with optimistic concurrency,
// location registration, and the append-only refresh update log.
//
// # Data model
//
// An entity is an envelope (apiVersion, kind, metadata, spec) whose spec
// payload is opaque to the store. The store manages three metadata
// fields itself: uid (assigned once, immutable), etag (regenerated per
// write, audit-only) and generation (monotonic version counter, the
// basis of the concurrency protocol). (name, namespace) pairs are unique
// among stored entities.
//
// # Components
//
//   - Store: transactional CRUD over entities and locations. Updates go
//     through one of four strategies keyed by which identity fields the
//     caller supplies; all of them bump generation by exactly 1 and fail
//     with a ConflictError when the conditional write misses.
//   - ToRow/FromRow: codec between the envelope and the flat row. The
//     store-managed fields never round-trip through the metadata blob.
//   - Merge: reconciles a freshly read entity with the stored one,
//     preserving identity and out-of-band annotations.
//   - Handler: fiber routes for reading entities and managing locations.
//
// Conflicts are retryable by design: the caller re-reads the current
// state (and with it the current generation) and resubmits. The store
// never retries internally.
package catalog
