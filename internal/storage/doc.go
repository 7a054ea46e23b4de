// Package storage persists the published events envelope.
//
// FileStorage overwrites a single JSON file on local disk, which is what the
// static site build reads. GCSStorage optionally uploads the same bytes to a
// Cloud Storage object. Neither write is atomic: a crash mid-write can leave a
// truncated document behind.
package storage
