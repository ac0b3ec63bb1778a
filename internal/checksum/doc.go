// Package checksum writes the SHA-256 manifest covering every distribution
// archive in the output directory.
package checksum
