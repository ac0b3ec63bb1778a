package release

import (
	"fmt"
	"path/filepath"
)

// DisplayName is the product name used in release titles and notes.
const DisplayName = "NetOpt"

// ManifestName is the checksum manifest file name within the output directory.
const ManifestName = "SHA256SUMS.txt"

// SignatureName is the clearsigned manifest file name, produced only when a
// signing key is configured.
const SignatureName = ManifestName + ".asc"

// Format identifies the archive layout produced for a target.
type Format int

const (
	// FormatTarGz produces a gzip-compressed tarball.
	FormatTarGz Format = iota
	// FormatZip produces a zip archive.
	FormatZip
)

// Ext returns the archive filename extension for the format, without a
// leading dot.
func (f Format) Ext() string {
	if f == FormatZip {
		return "zip"
	}

	return "tar.gz"
}

// Target is a platform triple the pipeline builds for.
type Target string

// The release target matrix. Order defines build attempt order and the
// ordering of the final report.
const (
	TargetDarwinAMD64  Target = "x86_64-apple-darwin"
	TargetDarwinARM64  Target = "aarch64-apple-darwin"
	TargetWindowsAMD64 Target = "x86_64-pc-windows-gnu"
)

// Platform describes target-specific build and packaging attributes.
type Platform struct {
	// Name is a human-readable platform label used in reports and notes.
	Name string
	// ExeSuffix is appended to produced binary names, empty outside Windows.
	ExeSuffix string
	// CrossLinker names a linker binary that must be on PATH before the
	// target can be built, empty when the native toolchain suffices.
	CrossLinker string
	// Format selects the archive layout for the target.
	Format Format
}

var platforms = map[Target]Platform{
	TargetDarwinAMD64: {
		Name:   "macOS (Intel)",
		Format: FormatTarGz,
	},
	TargetDarwinARM64: {
		Name:   "macOS (Apple Silicon)",
		Format: FormatTarGz,
	},
	TargetWindowsAMD64: {
		Name:        "Windows x64",
		ExeSuffix:   ".exe",
		CrossLinker: "x86_64-w64-mingw32-gcc",
		Format:      FormatZip,
	},
}

// Targets returns the build matrix in its fixed order.
func Targets() []Target {
	return []Target{TargetDarwinAMD64, TargetDarwinARM64, TargetWindowsAMD64}
}

// Platform returns the target's build and packaging attributes. Targets
// outside the matrix report the tar+gzip defaults.
func (t Target) Platform() Platform {
	return platforms[t]
}

// BinaryName returns the file name a produced binary carries on the target.
func (t Target) BinaryName(base string) string {
	return base + t.Platform().ExeSuffix
}

// ArtifactDir returns the compiler output directory for the target, relative
// to the project root.
func (t Target) ArtifactDir(projectRoot string) string {
	return filepath.Join(projectRoot, "target", string(t), "release")
}

// StagingName returns the name of the ephemeral staging directory that
// becomes the archive's root entry.
func (t Target) StagingName(project, version string) string {
	return fmt.Sprintf("%s-%s-%s", project, version, t)
}

// ArchiveName returns the distribution archive file name for the target.
func (t Target) ArchiveName(project, version string) string {
	return fmt.Sprintf("%s.%s", t.StagingName(project, version), t.Platform().Format.Ext())
}

// Tag derives the version control tag identifying a release version.
func Tag(version string) string {
	return "v" + version
}

// Title returns the human-readable release title for a version.
func Title(version string) string {
	return DisplayName + " " + version
}
