package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the release pipeline settings shared by the build and publish commands.
type Config struct {
	// Project is the archive name prefix for release artifacts.
	Project string `yaml:"project"`
	// ProjectRoot is the directory holding the workspace being released.
	// Compiler output paths and static files are resolved against it.
	ProjectRoot string `yaml:"project_root"`
	// OutputDir is the directory receiving archives and the checksum manifest.
	// It is destroyed and recreated at the start of every build run.
	OutputDir string `yaml:"output_dir"`
	// GUIBinary is the name of the required executable produced by the GUI crate.
	GUIBinary string `yaml:"gui_binary"`
	// ServiceBinary is the name of the optional companion service executable.
	ServiceBinary string `yaml:"service_binary"`
	// StaticFiles are project-root files staged into every archive when present.
	StaticFiles []string `yaml:"static_files"`
	// GitRemote is the remote the release tag is pushed to.
	GitRemote string `yaml:"git_remote"`
	// Jobs caps how many targets are processed concurrently; 1 means sequential.
	Jobs int `yaml:"jobs"`
	// Mirror holds optional S3-compatible mirror settings for release artifacts.
	Mirror Mirror `yaml:"mirror"`
	// Signing holds optional checksum manifest signing settings.
	Signing Signing `yaml:"signing"`
}

// Mirror describes an S3-compatible bucket that receives a copy of every
// published artifact so the suite's auto-update folder serves the release.
type Mirror struct {
	// Endpoint is the S3-compatible service endpoint, without scheme.
	Endpoint string `yaml:"endpoint"`
	// Bucket is the bucket name receiving the artifacts.
	Bucket string `yaml:"bucket"`
	// AccessKey authenticates against the endpoint.
	AccessKey string `yaml:"access_key"`
	// SecretKey authenticates against the endpoint.
	SecretKey string `yaml:"secret_key"`
	// Prefix is an optional key prefix, e.g. "releases".
	Prefix string `yaml:"prefix"`
}

// Enabled reports whether mirror uploads are configured.
func (m Mirror) Enabled() bool {
	return m.Endpoint != "" || m.Bucket != ""
}

// Signing describes the armored PGP key used to clear-sign the checksum manifest.
type Signing struct {
	// KeyFile is the path to an armored private key.
	KeyFile string `yaml:"key_file"`
	// Passphrase unlocks the private key when it is encrypted.
	Passphrase string `yaml:"passphrase"`
}

// Enabled reports whether manifest signing is configured.
func (s Signing) Enabled() bool {
	return s.KeyFile != ""
}

const (
	// DefaultConfigFilename is the default filename for pipeline settings.
	DefaultConfigFilename = "netopt-release.yaml"

	// DefaultVersion is the baseline release version used when none is given.
	DefaultVersion = "1.0.0"

	// DefaultProject is the archive name prefix when none is configured.
	DefaultProject = "netopt"

	// DefaultProjectRoot is the workspace directory when none is configured.
	DefaultProjectRoot = "."

	// DefaultOutputDir is the output directory when none is configured.
	DefaultOutputDir = "release"

	// DefaultGUIBinary is the GUI executable base name when none is configured.
	DefaultGUIBinary = "netopt-gui"

	// DefaultServiceBinary is the service executable base name when none is configured.
	DefaultServiceBinary = "netopt-service"

	// DefaultGitRemote is the remote the release tag is pushed to by default.
	DefaultGitRemote = "origin"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeJobs is returned when the concurrency cap is negative.
	errNegativeJobs = errors.New("jobs must not be negative")
	// errMirrorIncomplete is returned when only part of the mirror section is set.
	errMirrorIncomplete = errors.New("mirror requires both endpoint and bucket")
)

// DefaultStaticFiles returns the project-root files staged into every archive.
func DefaultStaticFiles() []string {
	return []string{"README.md", "LICENSE"}
}

// Default returns a configuration with every field at its baseline value.
func Default() *Config {
	cfg := new(Config)
	applyDefaults(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
// A missing file at the default path is not an error: the pipeline must run
// with zero configuration, so defaults are returned instead.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return Default(), nil
	} else if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions: the mirror section may carry credentials.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills defaults for empty fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Jobs < 0 {
		return errNegativeJobs
	}

	if cfg.Mirror.Enabled() && (cfg.Mirror.Endpoint == "" || cfg.Mirror.Bucket == "") {
		return errMirrorIncomplete
	}

	applyDefaults(cfg)

	return nil
}

// applyDefaults fills zero-valued fields with their baseline values.
func applyDefaults(cfg *Config) {
	if cfg.Project == "" {
		cfg.Project = DefaultProject
	}

	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = DefaultProjectRoot
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}

	if cfg.GUIBinary == "" {
		cfg.GUIBinary = DefaultGUIBinary
	}

	if cfg.ServiceBinary == "" {
		cfg.ServiceBinary = DefaultServiceBinary
	}

	if len(cfg.StaticFiles) == 0 {
		cfg.StaticFiles = DefaultStaticFiles()
	}

	if cfg.GitRemote == "" {
		cfg.GitRemote = DefaultGitRemote
	}

	if cfg.Jobs == 0 {
		cfg.Jobs = 1
	}
}
