// Package config defines release pipeline settings and provides helpers to
// load, validate and save them in YAML format.
//
// The Config type holds the project naming, output directory, artifact
// binaries, tag remote, and the optional mirror and signing sections. Every
// field has a default so the pipeline runs without any configuration file.
package config
