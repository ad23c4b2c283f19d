// Package display renders path MTU probes and results for the terminal.
package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hervehildenbrand/gmtu/pkg/probe"
)

// Styles shared by the line renderer and the progress view.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	boundsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	replyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	missStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	mtuStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)
)

// SimpleRenderer renders probes as one text line each.
type SimpleRenderer struct {
	NoColor    bool
	ShowSource bool
}

// NewSimpleRenderer creates a new SimpleRenderer with default settings.
func NewSimpleRenderer() *SimpleRenderer {
	return &SimpleRenderer{
		ShowSource: true,
	}
}

func (r *SimpleRenderer) paint(s lipgloss.Style, text string) string {
	if r.NoColor {
		return text
	}
	return s.Render(text)
}

// FormatRTT formats a duration as milliseconds.
func (r *SimpleRenderer) FormatRTT(d time.Duration) string {
	ms := float64(d) / float64(time.Millisecond)
	return fmt.Sprintf("%.2fms", ms)
}

// RenderRecord renders a single probe as a text line.
func (r *SimpleRenderer) RenderRecord(rec probe.Record) string {
	parts := []string{
		fmt.Sprintf("%2d", rec.Seq),
		fmt.Sprintf("%5d bytes", rec.DatagramLen()),
		r.paint(boundsStyle, fmt.Sprintf("[%d,%d)", rec.Min, rec.Max)),
	}

	if rec.Reply {
		parts = append(parts, r.paint(replyStyle, "reply"), r.FormatRTT(rec.RTT))
	} else {
		parts = append(parts, r.paint(missStyle, describeMiss(rec)))
	}

	if rec.NextHopMTU > 0 {
		parts = append(parts, r.paint(mtuStyle, fmt.Sprintf("[MTU:%d]", rec.NextHopMTU)))
	}

	if r.ShowSource && rec.From != nil {
		parts = append(parts, "from "+rec.From.String())
	}

	return strings.Join(parts, "  ")
}

// describeMiss names the response that stood in for an Echo Reply.
func describeMiss(rec probe.Record) string {
	switch {
	case rec.ICMPType < 0:
		return "unrecognised response"
	case rec.ICMPType == 3 && rec.ICMPCode == 4:
		return "frag needed"
	case rec.ICMPType == 3:
		return fmt.Sprintf("unreachable (code %d)", rec.ICMPCode)
	case rec.ICMPType == 8:
		return "own echo request"
	case rec.ICMPType == 11:
		return "time exceeded"
	default:
		return fmt.Sprintf("icmp type %d code %d", rec.ICMPType, rec.ICMPCode)
	}
}

// RenderSummary renders the closing line of a discovery.
func (r *SimpleRenderer) RenderSummary(res *probe.Result) string {
	if !res.Converged() {
		return r.paint(missStyle, fmt.Sprintf("no path MTU found after %d probes", res.Probes()))
	}
	return fmt.Sprintf("%s after %d probes (%d replies) in %v",
		r.paint(completeStyle, fmt.Sprintf("path MTU %d", res.MTU)),
		res.Probes(), res.Replies(), res.Duration().Round(time.Millisecond))
}

// RenderResult renders a complete discovery result to the writer.
func (r *SimpleRenderer) RenderResult(w io.Writer, res *probe.Result) {
	fmt.Fprintln(w, r.paint(titleStyle, fmt.Sprintf("path MTU discovery to %s", res.Target)))

	for _, rec := range res.Records {
		fmt.Fprintln(w, r.RenderRecord(rec))
	}

	fmt.Fprintln(w, r.RenderSummary(res))
}
