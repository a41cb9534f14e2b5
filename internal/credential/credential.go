// Package credential contains the structural codec for bearer credentials.
// A credential is opaque to the client: the only check performed here is that
// the raw string splits into exactly three non-empty dot-separated segments
// (header, payload, signature). Semantic validity — signature and expiry —
// is decided exclusively by the session authority.
package credential

import "strings"

// SegmentCount is the number of dot-separated segments in a well-formed
// bearer credential.
const SegmentCount = 3

// IsWellFormed reports whether raw looks like a bearer credential.
// It is a syntactic pre-check only, used to avoid spending a network
// round trip on values that are obviously corrupt.
func IsWellFormed(raw string) bool {
	parts := strings.Split(raw, ".")
	if len(parts) != SegmentCount {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}
