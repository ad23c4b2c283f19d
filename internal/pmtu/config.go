// Package pmtu implements IPv4 Path MTU discovery using ICMP Echo probes
// with the Don't Fragment flag set.
package pmtu

import (
	"errors"
	"time"

	"github.com/hervehildenbrand/gmtu/pkg/probe"
)

// Header sizes of a probe datagram.
const (
	IPv4HeaderLen  = 20
	ICMPHeaderLen  = 8
	HeaderOverhead = probe.HeaderOverhead
)

// Defaults for the binary search.
const (
	DefaultMaxCandidate  = 1500
	DefaultMaxIterations = 16
	DefaultTimeout       = 2 * time.Second
)

// Config holds the search parameters.
type Config struct {
	// MaxCandidate is the initial upper bound of the ICMP payload size.
	// It is assumed to fail and is never probed itself.
	MaxCandidate int

	// MaxIterations is the probe budget for one discovery.
	MaxIterations int

	// Timeout bounds the wait for a reply to each probe.
	Timeout time.Duration
}

// DefaultConfig returns the reference search parameters.
func DefaultConfig() *Config {
	return &Config{
		MaxCandidate:  DefaultMaxCandidate,
		MaxIterations: DefaultMaxIterations,
		Timeout:       DefaultTimeout,
	}
}

// Validate checks if the configuration is valid.
// Candidates too large for a datagram are reported by the packet builder.
func (c *Config) Validate() error {
	if c.MaxCandidate <= 0 {
		return errors.New("max candidate must be positive")
	}

	if c.MaxIterations <= 0 {
		return errors.New("max iterations must be positive")
	}

	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	return nil
}
