// Package cluster groups hosts into semantically-equivalent sets prior to
// route scoring.
package cluster

import (
	"net"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// sameApex reports whether a and b are DNS names that share the same
// registered domain (eTLD+1), via the public-suffix-list extractor. It
// returns false if either side is an IP literal.
func sameApex(a, b string) bool {
	if net.ParseIP(a) != nil || net.ParseIP(b) != nil {
		return false
	}

	apexA, errA := publicsuffix.EffectiveTLDPlusOne(strings.TrimSuffix(a, "."))
	apexB, errB := publicsuffix.EffectiveTLDPlusOne(strings.TrimSuffix(b, "."))
	if errA != nil || errB != nil {
		return false
	}
	return apexA == apexB
}
