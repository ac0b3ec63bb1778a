// Package storage mirrors release artifacts into S3-compatible object
// storage so the suite's update folder serves the same files as the release.
//
// Mirroring is optional: the publish stage only touches this package when a
// mirror section is configured.
package storage
