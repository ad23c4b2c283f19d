// Package export writes discovery results to JSON, CSV and text files.
package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/hervehildenbrand/gmtu/pkg/probe"
)

// ExportedResult is the JSON representation of a discovery result.
type ExportedResult struct {
	Target     string          `json:"target"`
	MTU        int             `json:"mtu"`
	Payload    int             `json:"payload"`
	Converged  bool            `json:"converged"`
	StartTime  time.Time       `json:"startTime,omitempty"`
	EndTime    time.Time       `json:"endTime,omitempty"`
	DurationMs float64         `json:"durationMs"`
	Probes     []ExportedProbe `json:"probes"`
}

// ExportedProbe is the JSON representation of a single probe.
type ExportedProbe struct {
	Seq         int     `json:"seq"`
	Size        int     `json:"size"`
	DatagramLen int     `json:"datagramLen"`
	Min         int     `json:"min"`
	Max         int     `json:"max"`
	Reply       bool    `json:"reply"`
	RTT         float64 `json:"rtt"` // in ms
	From        string  `json:"from,omitempty"`
	ICMPType    int     `json:"icmpType"`
	ICMPCode    int     `json:"icmpCode"`
	NextHopMTU  int     `json:"nextHopMtu,omitempty"`
}

// JSONExporter exports discovery results to JSON format.
type JSONExporter struct {
	Pretty bool // Whether to pretty-print the JSON
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{
		Pretty: false,
	}
}

// Export writes the discovery result as JSON to the writer.
func (e *JSONExporter) Export(w io.Writer, res *probe.Result) error {
	exported := e.convert(res)

	encoder := json.NewEncoder(w)
	if e.Pretty {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(exported)
}

// convert transforms a Result to an ExportedResult.
func (e *JSONExporter) convert(res *probe.Result) *ExportedResult {
	exported := &ExportedResult{
		Target:     res.Target,
		MTU:        res.MTU,
		Payload:    res.Payload(),
		Converged:  res.Converged(),
		StartTime:  res.StartTime,
		EndTime:    res.EndTime,
		DurationMs: float64(res.Duration()) / float64(time.Millisecond),
		Probes:     make([]ExportedProbe, 0, len(res.Records)),
	}

	for _, rec := range res.Records {
		exported.Probes = append(exported.Probes, e.convertRecord(rec))
	}

	return exported
}

// convertRecord transforms a Record to an ExportedProbe.
func (e *JSONExporter) convertRecord(rec probe.Record) ExportedProbe {
	from := ""
	if rec.From != nil {
		from = rec.From.String()
	}

	return ExportedProbe{
		Seq:         rec.Seq,
		Size:        rec.Size,
		DatagramLen: rec.DatagramLen(),
		Min:         rec.Min,
		Max:         rec.Max,
		Reply:       rec.Reply,
		RTT:         float64(rec.RTT) / float64(time.Millisecond),
		From:        from,
		ICMPType:    rec.ICMPType,
		ICMPCode:    rec.ICMPCode,
		NextHopMTU:  rec.NextHopMTU,
	}
}
