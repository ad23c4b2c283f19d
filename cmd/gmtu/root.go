package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hervehildenbrand/gmtu/internal/display"
	"github.com/hervehildenbrand/gmtu/internal/export"
	"github.com/hervehildenbrand/gmtu/internal/pmtu"
	"github.com/hervehildenbrand/gmtu/pkg/probe"
)

// Config holds the parsed CLI configuration.
type Config struct {
	Target        string
	Timeout       time.Duration
	MaxIterations int
	MaxSize       int
	Verbose       bool
	Progress      bool
	NoColor       bool
	Output        string
	Format        string
	DryRun        bool
}

var validFormats = map[string]bool{
	"":     true,
	"json": true,
	"csv":  true,
	"text": true,
	"txt":  true,
}

// transport is a probe socket the command owns and must close.
type transport interface {
	pmtu.Transport
	Close() error
}

// transportOpener opens the probe socket.
type transportOpener func() (transport, error)

func openRawTransport() (transport, error) {
	t, err := pmtu.OpenRawTransport()
	if err != nil {
		return nil, err
	}
	return t, nil
}

// NewRootCmd creates and returns the root cobra command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(openRawTransport)
}

func newRootCmd(open transportOpener) *cobra.Command {
	var cfg Config

	cmd := &cobra.Command{
		Use:   "gmtu <ipv4-address>",
		Short: "IPv4 Path MTU discovery",
		Long: `gmtu finds the largest IPv4 datagram that reaches a host without
fragmentation. It sends ICMP Echo Requests with the Don't Fragment flag set
and binary searches the payload size until it is pinned to a single byte.

Raw socket access is required: run as root or grant CAP_NET_RAW.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return &pmtu.Error{Kind: pmtu.KindArgument, Op: "parse arguments", Err: err}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !validFormats[cfg.Format] {
				return &pmtu.Error{Kind: pmtu.KindArgument, Op: "parse flags",
					Err: fmt.Errorf("invalid format %q: must be json, csv, or text", cfg.Format)}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Target = args[0]

			target, err := pmtu.ParseTarget(cfg.Target)
			if err != nil {
				return err
			}

			searchCfg := &pmtu.Config{
				MaxCandidate:  cfg.MaxSize,
				MaxIterations: cfg.MaxIterations,
				Timeout:       cfg.Timeout,
			}
			if err := searchCfg.Validate(); err != nil {
				return &pmtu.Error{Kind: pmtu.KindArgument, Op: "parse flags", Err: err}
			}

			if cfg.DryRun {
				// Just validate args and return
				return nil
			}

			return runDiscovery(cmd, &cfg, searchCfg, target, open)
		},
	}

	// Search flags
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", pmtu.DefaultTimeout, "Per-probe reply timeout")
	cmd.Flags().IntVar(&cfg.MaxIterations, "max-iterations", pmtu.DefaultMaxIterations, "Maximum probes before giving up")
	cmd.Flags().IntVar(&cfg.MaxSize, "max-size", pmtu.DefaultMaxCandidate, "Upper bound of the ICMP payload size (never probed)")

	// Display flags
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every probe to stderr")
	cmd.Flags().BoolVar(&cfg.Progress, "progress", false, "Show interactive progress on stderr")
	cmd.Flags().BoolVar(&cfg.NoColor, "no-color", false, "Disable colors")

	// Export flags
	cmd.Flags().StringVarP(&cfg.Output, "output", "o", "", "Export to file (json/csv/txt)")
	cmd.Flags().StringVar(&cfg.Format, "format", "", "Explicit export format")

	// Other flags
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Validate args without probing")

	return cmd
}

// newLogger builds the stderr logger for one run.
func newLogger(w io.Writer, cfg *Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: cfg.NoColor,
		FullTimestamp: true,
	})
	log.SetLevel(logrus.WarnLevel)
	if cfg.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runDiscovery probes the target and prints the path MTU.
func runDiscovery(cmd *cobra.Command, cfg *Config, searchCfg *pmtu.Config, target net.IP, open transportOpener) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stderr := cmd.ErrOrStderr()
	tty := isTerminal(stderr)
	noColor := cfg.NoColor || !tty

	log := newLogger(stderr, cfg)
	useProgress := cfg.Progress && tty
	if cfg.Progress && !tty {
		log.Warn("stderr is not a terminal, progress view disabled")
	}
	if useProgress {
		// Log lines would tear the progress view.
		log.SetLevel(logrus.WarnLevel)
	}

	t, err := open()
	if err != nil {
		return err
	}
	defer t.Close()

	log.WithFields(logrus.Fields{
		"target":         target.String(),
		"max_size":       searchCfg.MaxCandidate,
		"max_iterations": searchCfg.MaxIterations,
		"timeout":        searchCfg.Timeout,
	}).Debug("starting discovery")

	renderer := display.NewSimpleRenderer()
	renderer.NoColor = noColor

	discover := func(ctx context.Context, onProbe func(probe.Record)) (*probe.Result, error) {
		d, err := pmtu.NewDiscoverer(searchCfg, t,
			pmtu.WithLogger(log),
			pmtu.WithProbeCallback(onProbe),
		)
		if err != nil {
			return nil, err
		}
		return d.Discover(ctx, target)
	}

	var result *probe.Result
	if useProgress {
		result, err = display.RunProgress(ctx, cmd.InOrStdin(), stderr, target.String(), noColor, discover)
	} else {
		result, err = discover(ctx, func(rec probe.Record) {
			if cfg.Verbose {
				fmt.Fprintln(stderr, renderer.RenderRecord(rec))
			}
		})
	}
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("discovery interrupted: %w", err)
		}
		return err
	}

	if cfg.Verbose && !useProgress {
		fmt.Fprintln(stderr, renderer.RenderSummary(result))
	}

	// Export before printing so a failed export leaves stdout empty.
	if cfg.Output != "" {
		if err := export.ExportToFile(cfg.Output, export.Format(cfg.Format), result); err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		fmt.Fprintf(stderr, "Results exported to %s\n", cfg.Output)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "MTU: %d\n", result.MTU)
	return nil
}
