package release

// Status classifies the result of one target's pipeline pass.
type Status int

const (
	// StatusBuilt means the target produced an archive.
	StatusBuilt Status = iota
	// StatusSkipped means a precondition ruled the target out before the
	// compiler ran.
	StatusSkipped
	// StatusFailed means the build or packaging step errored.
	StatusFailed
)

// String returns the report label for the status.
func (s Status) String() string {
	switch s {
	case StatusBuilt:
		return "built"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome records what happened to a single target during a run.
type Outcome struct {
	// Target is the platform triple the outcome describes.
	Target Target
	// Archive is the path of the produced archive, set only for StatusBuilt.
	Archive string
	// Reason explains a skip or failure in human terms.
	Reason string
	// Status classifies the result.
	Status Status
}

// Built reports whether the outcome carries a produced archive.
func (o Outcome) Built() bool {
	return o.Status == StatusBuilt && o.Archive != ""
}

// Summary aggregates the per-target outcomes of one pipeline run.
type Summary struct {
	// Version is the release version the run was building.
	Version string
	// Outcomes holds one record per target, in matrix order.
	Outcomes []Outcome
}

// Archives returns the produced archive paths in matrix order.
func (s *Summary) Archives() []string {
	paths := make([]string, 0, len(s.Outcomes))

	for _, o := range s.Outcomes {
		if o.Built() {
			paths = append(paths, o.Archive)
		}
	}

	return paths
}

// ArchiveCount returns how many targets produced an archive.
func (s *Summary) ArchiveCount() int {
	return len(s.Archives())
}

// Metadata is everything the publish stage sends to the hosting platform.
type Metadata struct {
	// Version is the release version string.
	Version string
	// Tag is the version control tag identifying the release.
	Tag string
	// Title is the human-readable release title.
	Title string
	// Notes is the rendered release notes body.
	Notes string
	// Files lists every attached file, archives first, then the manifest
	// and its signature when one was produced.
	Files []string
}
