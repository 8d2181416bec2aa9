// Package cmd wires up the CLI flags and dispatches to the core modes.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"logsend/config"
	"logsend/internal/core"
	lserr "logsend/internal/errors"
	"logsend/internal/metrics"
	"logsend/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X logsend/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and sends the requested message or file.
func Execute(ctx context.Context, args []string) error {
	// Environment first; flags registered below use it as their defaults.
	cfg := config.Default()
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("logsend", flag.ContinueOnError)

	// ── receiver ─────────────────────────────────────────────────
	fs.StringVarP(&cfg.Server, "server", "s", cfg.Server, "Syslog receiver host")
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "Syslog receiver port")
	fs.BoolVarP(&cfg.UDP, "udp", "u", cfg.UDP, "Send over UDP instead of TCP")
	fs.BoolVarP(&cfg.NoDNS, "no-dns", "n", cfg.NoDNS, "Numeric-only, no DNS resolution")

	timeoutSec := int(cfg.Timeout / time.Second)
	fs.IntVarP(&timeoutSec, "timeout", "w", timeoutSec, "Connect timeout in seconds")

	// ── payload ──────────────────────────────────────────────────
	fs.StringVarP(&cfg.Message, "message", "m", "", "Send a single message")
	fs.StringVarP(&cfg.File, "file", "f", "", "Replay a file, one message per line")
	fs.IntVarP(&cfg.DelayMillis, "delay", "d", cfg.DelayMillis, "Pause after each replayed line (0-1000 ms)")

	// ── behaviour ────────────────────────────────────────────────
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "Fail on the first message that cannot be sent")
	fs.BoolVar(&cfg.Stats, "stats", false, "Print delivery counters as JSON when done")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Validate configuration and exit")

	// ── SSH gateway ──────────────────────────────────────────────
	fs.StringVarP(&cfg.GatewaySpec, "tunnel", "T", cfg.GatewaySpec, "Send through an SSH gateway [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", false, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp || len(args) == 0 {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("logsend %s\n", version)
		return nil
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q (use --help for usage)", fs.Arg(0))
	}

	cfg.Timeout = time.Duration(timeoutSec) * time.Second

	// ── gateway spec ─────────────────────────────────────────────
	if cfg.GatewaySpec != "" {
		user, host, port, err := config.ParseGatewaySpec(cfg.GatewaySpec)
		if err != nil {
			return &lserr.ConfigError{Field: "tunnel", Value: cfg.GatewaySpec, Message: err.Error()}
		}
		cfg.GatewayEnabled = true
		cfg.GatewayUser = user
		cfg.GatewayHost = host
		cfg.GatewayPort = port
	}

	// ── validate ─────────────────────────────────────────────────
	// Nothing to send is a request for help, as with no arguments at all.
	if cfg.Message == "" && cfg.File == "" {
		printUsage(fs)
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := util.NewLogger(cfg.Verbose)
	logger.SetTimestamps(logger.Enabled(util.LogDebug))

	if cfg.DryRun {
		printPlan(cfg)
		return nil
	}

	// ── run ──────────────────────────────────────────────────────
	m := metrics.New()
	mode, err := core.Build(cfg, logger, m)
	if err != nil {
		return err
	}

	runErr := mode.Run(ctx)
	if cfg.Stats {
		fmt.Fprintln(os.Stderr, m.JSON())
	}
	return runErr
}

// ── helpers ──────────────────────────────────────────────────────────

func printPlan(cfg *config.Config) {
	fmt.Fprintf(os.Stderr, "receiver: %s (%s)\n", util.FormatAddr(cfg.Server, cfg.Port), cfg.Kind())
	if cfg.GatewayEnabled {
		fmt.Fprintf(os.Stderr, "gateway:  %s@%s\n", cfg.GatewayUser, util.FormatAddr(cfg.GatewayHost, cfg.GatewayPort))
	}
	if cfg.ReplayMode() {
		fmt.Fprintf(os.Stderr, "replay:   %s, %d ms after each line\n", cfg.File, cfg.DelayMillis)
	} else {
		fmt.Fprintf(os.Stderr, "message:  %q\n", cfg.Message)
	}
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `logsend – syslog test sender v%s

Sends RFC 5424 records tagged GO_TEST_SENDER to a syslog receiver.

Usage:
  logsend [options] -m <message>              Send one message
  logsend [options] -f <file> [-d <ms>]       Replay a file line by line

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  logsend -m "disk full"                      TCP to localhost:514
  logsend -s graylog -p 1514 -u -m "hello"    UDP to graylog:1514
  logsend -f app.log -d 100                   Replay with 100 ms pacing
  logsend -T admin@bastion -s logs.internal -m "via gateway"
`)
}
