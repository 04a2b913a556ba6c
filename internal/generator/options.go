package generator

import "time"

// Options configures stage generation.
type Options struct {
	MaxAttempts int           // shuffles tried before giving up
	Timeout     time.Duration // wall-clock limit per Generate call, 0 = none
}

// DefaultOptions returns standard generator options.
func DefaultOptions() *Options {
	return &Options{
		MaxAttempts: 10000,
		Timeout:     5 * time.Second,
	}
}
