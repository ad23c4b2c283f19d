package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hervehildenbrand/gmtu/pkg/probe"
)

// CSVExporter exports discovery results to CSV format, one row per probe.
type CSVExporter struct{}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export writes the probes of a discovery result as CSV to the writer.
func (e *CSVExporter) Export(w io.Writer, res *probe.Result) error {
	writer := csv.NewWriter(w)

	header := []string{
		"target", "seq", "size", "datagram_len", "min", "max",
		"reply", "rtt_ms", "from", "icmp_type", "icmp_code", "next_hop_mtu",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, rec := range res.Records {
		if err := writer.Write(e.recordToRow(res.Target, rec)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// recordToRow converts a probe record to a CSV row.
func (e *CSVExporter) recordToRow(target string, rec probe.Record) []string {
	from := ""
	if rec.From != nil {
		from = rec.From.String()
	}

	nextHop := ""
	if rec.NextHopMTU > 0 {
		nextHop = strconv.Itoa(rec.NextHopMTU)
	}

	return []string{
		target,
		strconv.Itoa(rec.Seq),
		strconv.Itoa(rec.Size),
		strconv.Itoa(rec.DatagramLen()),
		strconv.Itoa(rec.Min),
		strconv.Itoa(rec.Max),
		strconv.FormatBool(rec.Reply),
		fmt.Sprintf("%.2f", float64(rec.RTT)/float64(time.Millisecond)),
		from,
		strconv.Itoa(rec.ICMPType),
		strconv.Itoa(rec.ICMPCode),
		nextHop,
	}
}
