// Package ingest implements the refresh orchestration loop that keeps
// stored entities in sync with their locations.
//
// A refresh run iterates every registered location, asks the location
// reader for a lazy stream of raw descriptor payloads, parses each one,
// and merges the result into the catalog: added when absent, merged and
// updated when present. Every attempt outcome lands in the append-only
// location update log.
//
// # Fault Isolation
//
// The loop is built so that one bad input never takes down its siblings:
//
//   - an unreadable item is logged and skipped
//   - an unparseable item or a write conflict becomes a FAIL log event
//     for that entity and processing continues
//   - a reader that fails outright becomes one FAIL event for the whole
//     location and the loop moves to the next location
//
// RefreshAll itself only fails for systemic problems, such as the store
// being unreachable.
//
// # Collaborators
//
// The reader and parser are contracts (LocationReader,
// DescriptorParser) so the loop stays independent of where descriptors
// come from and what format they are in. Concrete implementations live
// in feature/catalog/readers and feature/catalog/parser.
package ingest
