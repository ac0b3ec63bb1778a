// Package publish orchestrates tagging, notes rendering and the release
// upload.
//
// The artifact list is collected before anything touches the network: a run
// with zero archives aborts without creating a tag or a release.
package publish
