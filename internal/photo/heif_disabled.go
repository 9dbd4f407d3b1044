//go:build !heif

package photo

// HEIFSupported reports whether this build can decode iPhone HEIC uploads.
// The decoder needs cgo (libde265), so it is opt-in via the heif build tag.
const HEIFSupported = false
