// Package notes renders the bilingual release notes body.
//
// The notes are a pure function of the project name and version: a fixed
// zh/en template filled with the download table derived from the target
// matrix and the archive naming convention.
package notes
