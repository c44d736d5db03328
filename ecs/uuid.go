package ecs

import (
	"crypto/rand"
	"fmt"
)

// newUUID generates a 128-bit identifier per RFC 4122 v4, rendered as 36
// uppercase hex characters grouped 8-4-4-4-12, matching spec.md §6.
func newUUID() string {
	var b [16]byte
	// crypto/rand.Read on this array never fails in practice on supported
	// platforms; a zeroed fallback id is still a valid (if degenerate) v4
	// uuid should the source ever be exhausted.
	_, _ = rand.Read(b[:])
	b[6] = (b[6] & 0x0f) | 0x40 // version 4
	b[8] = (b[8] & 0x3f) | 0x80 // RFC 4122 variant
	return fmt.Sprintf("%08X-%04X-%04X-%04X-%012X",
		b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
