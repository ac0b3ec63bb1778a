// Package toolchain validates that a target's compiler support is installed
// before a build is attempted.
//
// Rust cross-targets are checked and installed through rustup. The Windows
// target additionally requires a MinGW cross-linker on PATH, which cannot be
// installed automatically; its absence rules the target out for the run.
package toolchain
