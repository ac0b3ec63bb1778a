// Package packager stages a target's build outputs together with shared
// static files and compresses them into the distribution archive.
//
// The staging directory is created inside the output directory, becomes the
// archive's root entry and is deleted after compression regardless of the
// outcome, so the output directory only ever lists archives.
package packager
