// Package readers implements the built-in location readers.
//
// A location's type selects the reader:
//
//   - file: a descriptor file, or a directory walked recursively for
//     .yaml/.yml files
//   - url: a single descriptor fetched over HTTP(S)
//   - object: a key prefix in the configured object-storage bucket,
//     listed in one paginated pass
//
// Readers emit a lazy stream of items. Per-item problems (an unreadable
// file, a failed object download) are emitted as error items so the
// refresh loop can skip them; only failures that make the whole target
// unreadable fail the Read call itself.
package readers
