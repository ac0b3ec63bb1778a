// Package signing clear-signs the checksum manifest with an armored PGP key.
//
// Signing is optional: the build stage only produces the signature when a
// key is configured, and the publish stage attaches it when present.
package signing
