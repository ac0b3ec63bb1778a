// Package publisher creates the remote release through the gh CLI.
//
// Authentication is a hard precondition checked before any remote work, and
// a run with zero collected archives aborts before the CLI is invoked, so an
// empty release can never be created.
package publisher
