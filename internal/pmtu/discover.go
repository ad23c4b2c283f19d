package pmtu

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hervehildenbrand/gmtu/pkg/probe"
)

// ProbeCallback is called after each probe has been classified.
type ProbeCallback func(probe.Record)

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithLogger sets the logger used for per-probe debug output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(d *Discoverer) {
		if log != nil {
			d.log = log
		}
	}
}

// WithProbeCallback registers a callback for every classified probe.
func WithProbeCallback(cb ProbeCallback) Option {
	return func(d *Discoverer) {
		d.onProbe = cb
	}
}

// Discoverer runs the binary search for the path MTU to a target.
// One probe is outstanding at a time.
type Discoverer struct {
	config    *Config
	transport Transport
	log       logrus.FieldLogger
	onProbe   ProbeCallback
}

// NewDiscoverer creates a Discoverer that probes through transport.
func NewDiscoverer(cfg *Config, transport Transport, opts ...Option) (*Discoverer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, newError(KindArgument, "configure discovery", err)
	}
	if transport == nil {
		return nil, newError(KindArgument, "configure discovery", fmt.Errorf("nil transport"))
	}

	d := &Discoverer{
		config:    cfg,
		transport: transport,
		log:       discardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Discover probes target until the largest deliverable datagram is pinned
// to a single byte and returns it as the path MTU.
//
// Any build, send or receive failure ends the search immediately. A probe
// that gets no answer within the timeout is a receive failure; it is not
// taken as evidence that the probe was too large.
func (d *Discoverer) Discover(ctx context.Context, target net.IP) (*probe.Result, error) {
	result := probe.NewResult(target.String())
	result.StartTime = time.Now()

	low, high := 0, d.config.MaxCandidate
	size := MTUSearchMidpoint(low, high)

	for seq := 1; seq <= d.config.MaxIterations; seq++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log := d.log.WithFields(logrus.Fields{
			"iteration": seq,
			"size":      size,
			"min":       low,
			"max":       high,
		})

		packet, err := BuildEchoRequest(target, size)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		if err := d.transport.Send(packet, target); err != nil {
			return nil, newError(KindSend, "send probe", err)
		}

		datagram, src, err := d.transport.Receive(d.config.Timeout)
		if err != nil {
			if isTimeout(err) {
				log.WithField("timeout", d.config.Timeout).Debug("probe timed out")
			}
			return nil, newError(KindReceive, "receive reply", err)
		}
		if datagram == nil {
			return nil, newError(KindReceive, "receive reply", errNoReply)
		}

		rec := probe.Record{
			Seq:      seq,
			Size:     size,
			Min:      low,
			Max:      high,
			RTT:      time.Since(start),
			From:     src,
			ICMPType: -1,
		}
		if resp, ok := ParseResponse(datagram); ok {
			rec.Reply = resp.EchoReply()
			rec.ICMPType = int(resp.Type)
			rec.ICMPCode = resp.Code
			rec.NextHopMTU = resp.NextHopMTU
		}

		log = log.WithFields(logrus.Fields{"reply": rec.Reply, "rtt": rec.RTT})
		if rec.NextHopMTU > 0 {
			log = log.WithField("next_hop_mtu", rec.NextHopMTU)
		}
		log.Debug("probe classified")

		result.AddRecord(rec)
		if d.onProbe != nil {
			d.onProbe(rec)
		}

		if rec.Reply && high-1 == low {
			result.MTU = size + HeaderOverhead
			result.EndTime = time.Now()
			d.log.WithFields(logrus.Fields{
				"mtu":    result.MTU,
				"probes": result.Probes(),
			}).Debug("search converged")
			return result, nil
		}

		if rec.Reply {
			low = size
		} else {
			high = size
		}
		size = MTUSearchMidpoint(low, high)
	}

	return nil, newError(KindLoopLimit, "converge",
		fmt.Errorf("no convergence within %d probes", d.config.MaxIterations))
}
