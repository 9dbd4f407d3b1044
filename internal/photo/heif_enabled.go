//go:build heif

package photo

import _ "github.com/jdeng/goheif" // registers the HEIC/HEIF decoder

// HEIFSupported reports whether this build can decode iPhone HEIC uploads.
const HEIFSupported = true
