// Package release contains core domain types for the release pipeline.
//
// It defines the fixed target matrix with per-platform build and packaging
// attributes, the naming conventions shared by the pipeline stages, and the
// per-target Outcome records collected into a run Summary.
package release
