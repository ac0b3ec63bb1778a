// Package builder compiles the workspace for one target in release mode.
package builder
