// Package build orchestrates the per-target release pipeline.
//
// Each target runs toolchain validation, compilation and packaging in
// isolation: one target failing or being skipped never stops the others.
// The checksum stage runs once after every target has been attempted, so
// the manifest always covers exactly the archives present.
package build
