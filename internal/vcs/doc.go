// Package vcs manages the release tag in the project's git history.
package vcs
