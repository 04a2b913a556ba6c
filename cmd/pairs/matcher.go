package main

import (
	"strings"

	"svw.info/pairs/internal/ports"
	"svw.info/pairs/internal/solver"
)

// newMatcher picks the pair counter behind the generator. The first-viable
// search is the default; the exhaustive one is a reference.
func newMatcher(kind string) ports.Matcher {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "exhaustive", "exact":
		return solver.NewExhaustiveMatcher()
	default:
		return solver.NewBacktrackingMatcher()
	}
}
