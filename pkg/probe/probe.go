// Package probe defines the data model for Path MTU discovery results.
package probe

import (
	"net"
	"time"
)

// HeaderOverhead is the IPv4 header (20 bytes) plus the ICMP header (8 bytes)
// that wrap every probe payload.
const HeaderOverhead = 28

// Record describes a single probe and how it was classified.
type Record struct {
	Seq        int           // 1-based probe number within one discovery
	Size       int           // ICMP payload size in bytes
	Min        int           // Lower search bound before this probe
	Max        int           // Upper search bound before this probe
	Reply      bool          // Whether an Echo Reply came back
	RTT        time.Duration // Time between send and receive
	From       net.IP        // Source of the received datagram
	ICMPType   int           // ICMP type of the response, -1 if unparsable
	ICMPCode   int           // ICMP code of the response
	NextHopMTU int           // Next-hop MTU from Fragmentation Needed, if any
}

// DatagramLen returns the full IPv4 datagram length of the probe.
func (r Record) DatagramLen() int {
	return r.Size + HeaderOverhead
}

// Result contains the complete outcome of a discovery run.
type Result struct {
	Target    string    // Target address
	MTU       int       // Discovered path MTU, 0 if not converged
	Records   []Record  // Probes in the order they were sent
	StartTime time.Time // When discovery started
	EndTime   time.Time // When discovery completed
}

// NewResult creates a new Result for the given target.
func NewResult(target string) *Result {
	return &Result{
		Target:  target,
		Records: make([]Record, 0),
	}
}

// AddRecord appends a probe record.
func (r *Result) AddRecord(rec Record) {
	r.Records = append(r.Records, rec)
}

// Probes returns the number of probes sent.
func (r *Result) Probes() int {
	return len(r.Records)
}

// Replies returns the number of probes that got an Echo Reply.
func (r *Result) Replies() int {
	var n int
	for _, rec := range r.Records {
		if rec.Reply {
			n++
		}
	}
	return n
}

// AvgRTT calculates the average RTT over all probes.
func (r *Result) AvgRTT() time.Duration {
	if len(r.Records) == 0 {
		return 0
	}

	var total time.Duration
	for _, rec := range r.Records {
		total += rec.RTT
	}
	return total / time.Duration(len(r.Records))
}

// Payload returns the largest ICMP payload that fits the discovered MTU.
func (r *Result) Payload() int {
	if r.MTU < HeaderOverhead {
		return 0
	}
	return r.MTU - HeaderOverhead
}

// Duration returns how long the discovery took.
func (r *Result) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}

// Converged returns true if a path MTU was found.
func (r *Result) Converged() bool {
	return r.MTU > 0
}
