// Package auth provides the shared-secret check for score ingress.
package auth

import "crypto/subtle"

// SlowEquals compares two byte sequences in constant time so the comparison
// leaks no timing information about the server-held token. A length mismatch
// is folded into the result rather than short-circuiting.
func SlowEquals(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
