package generator

import (
	"errors"

	"svw.info/pairs/internal/domain"
	"svw.info/pairs/internal/ports"
)

const (
	MinTarget = 1
	MaxTarget = domain.StageTiles / 2
)

var (
	ErrInvalidTarget    = errors.New("target pair count must be between 1 and 13")
	ErrGenerationFailed = errors.New("failed to generate stage board")
)

// StageGenerator creates stage boards whose disjoint matchable pairs, as
// counted by Matcher, number exactly the requested target.
type StageGenerator struct {
	Matcher ports.Matcher
	options *Options
}

// New wires a generator that counts pairs with the given matcher.
func New(m ports.Matcher, opts *Options) *StageGenerator {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &StageGenerator{Matcher: m, options: opts}
}
