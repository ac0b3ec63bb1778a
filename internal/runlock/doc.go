// Package runlock prevents two release runs from sharing one output
// directory.
//
// A marker file next to the project records the owning process id; a second
// run refuses to start while that process is alive. Markers left behind by
// crashed runs are reclaimed after a process scan.
package runlock
