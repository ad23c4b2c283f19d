package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hervehildenbrand/gmtu/internal/display"
	"github.com/hervehildenbrand/gmtu/pkg/probe"
)

// TextExporter exports discovery results to human-readable text format.
type TextExporter struct {
	renderer *display.SimpleRenderer
}

// NewTextExporter creates a new text exporter.
func NewTextExporter() *TextExporter {
	r := display.NewSimpleRenderer()
	r.NoColor = true
	return &TextExporter{renderer: r}
}

// Export writes the discovery result as text to the writer.
func (e *TextExporter) Export(w io.Writer, res *probe.Result) error {
	// Header
	fmt.Fprintf(w, "Path MTU discovery to %s\n", res.Target)
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintln(w)

	for _, rec := range res.Records {
		fmt.Fprintln(w, e.renderer.RenderRecord(rec))
	}

	// Summary
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 70))
	if res.Converged() {
		fmt.Fprintf(w, "MTU: %d (payload %d bytes, %d probes)\n", res.MTU, res.Payload(), res.Probes())
	} else {
		fmt.Fprintf(w, "MTU not found (%d probes)\n", res.Probes())
	}
	if !res.StartTime.IsZero() && !res.EndTime.IsZero() {
		fmt.Fprintf(w, "Duration: %v\n", res.Duration().Round(time.Millisecond))
	}

	return nil
}
