package display

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/hervehildenbrand/gmtu/pkg/probe"
)

// RecordMsg is sent when a probe has been classified.
type RecordMsg struct {
	Record probe.Record
}

// DoneMsg is sent when discovery has finished.
type DoneMsg struct {
	Result *probe.Result
	Err    error
}

// ProgressModel is the Bubbletea model for the discovery progress view.
type ProgressModel struct {
	target    string
	records   []probe.Record
	done      bool
	aborted   bool
	result    *probe.Result
	err       error
	spinner   spinner.Model
	renderer  *SimpleRenderer
	startTime time.Time
}

// NewProgressModel creates a new progress model.
func NewProgressModel(target string, noColor bool) *ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	if !noColor {
		s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	}

	r := NewSimpleRenderer()
	r.NoColor = noColor

	return &ProgressModel{
		target:    target,
		records:   make([]probe.Record, 0),
		spinner:   s,
		renderer:  r,
		startTime: time.Now(),
	}
}

// Aborted reports whether the user quit before discovery finished.
func (m *ProgressModel) Aborted() bool {
	return m.aborted
}

// Init implements tea.Model
func (m *ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m *ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if !m.done {
				m.aborted = true
			}
			return m, tea.Quit
		}

	case RecordMsg:
		m.records = append(m.records, msg.Record)

	case DoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model
func (m *ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderer.paint(titleStyle, fmt.Sprintf("gmtu → %s", m.target)))
	b.WriteString("\n\n")

	for _, rec := range m.records {
		b.WriteString(m.renderer.RenderRecord(rec))
		b.WriteString("\n")
	}

	switch {
	case m.done && m.err != nil:
		b.WriteString(m.renderer.paint(missStyle, "✗ "+m.err.Error()))
	case m.done && m.result != nil:
		b.WriteString(m.renderer.paint(completeStyle, "✓ "))
		b.WriteString(m.renderer.RenderSummary(m.result))
	case m.aborted:
		b.WriteString(m.renderer.paint(missStyle, "✗ Cancelled"))
	default:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(m.status())
	}
	b.WriteString("\n")

	return b.String()
}

// status describes the search window the next probe falls in.
func (m *ProgressModel) status() string {
	elapsed := time.Since(m.startTime).Round(time.Millisecond)
	if len(m.records) == 0 {
		return fmt.Sprintf("Probing... %v  Press 'q' to cancel", elapsed)
	}

	last := m.records[len(m.records)-1]
	low, high := last.Min, last.Max
	if last.Reply {
		low = last.Size
	} else {
		high = last.Size
	}
	return fmt.Sprintf("Probing [%d,%d) bytes of payload... %v  Press 'q' to cancel", low, high, elapsed)
}

// DiscoverFunc runs one discovery, reporting every probe to onProbe.
type DiscoverFunc func(ctx context.Context, onProbe func(probe.Record)) (*probe.Result, error)

// RunProgress runs discover while a progress view renders to out. Keys are
// read from in; a nil in disables input. Quitting the view cancels discovery.
func RunProgress(ctx context.Context, in io.Reader, out io.Writer, target string, noColor bool, discover DiscoverFunc) (*probe.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewProgressModel(target, noColor)
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithoutSignalHandler(),
	)

	var (
		result  *probe.Result
		discErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result, discErr = discover(gctx, func(rec probe.Record) {
			p.Send(RecordMsg{Record: rec})
		})
		p.Send(DoneMsg{Result: result, Err: discErr})
		return nil
	})
	g.Go(func() error {
		_, err := p.Run()
		if model.Aborted() {
			cancel()
		}
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("progress view: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, discErr
}
