// Package shell is the command-execution boundary of the pipeline.
//
// Every external tool (rustup, cargo, git, gh) is invoked through the Runner
// interface so pipeline stages can be tested with fakes instead of real
// toolchains. ExecRunner is the production implementation.
package shell
