// SPDX-License-Identifier: MIT

// Package store persists cnmf.Estimates as a zstd-compressed JSON document.
//
// Matrices are stored by shape with their values packed as little-endian
// float64 bytes (base64 in the JSON text), so NaN survives a round trip.
// Spatial footprints keep their CSC structure; a background b is stored
// sparse or dense, as it was given.
//
// Load validates the decoded estimates before returning them.
package store
