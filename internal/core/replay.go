package core

import (
	"context"
	"fmt"
	"io"
	"os"

	"logsend/internal/replay"
	"logsend/internal/transport"
	"logsend/util"
)

// ReplayMode sends every line of File in order and prints a one-line
// summary when done.
type ReplayMode struct {
	Sequencer *replay.Sequencer
	Dialer    transport.Dialer
	File      string
	Logger    *util.Logger

	// Stderr defaults to os.Stderr when nil.
	Stderr io.Writer
}

func (m *ReplayMode) stderr() io.Writer {
	if m.Stderr != nil {
		return m.Stderr
	}
	return os.Stderr
}

// Run opens the file and replays it.  The summary is printed even when
// a strict run stops early.
func (m *ReplayMode) Run(ctx context.Context) error {
	defer closeDialer(m.Dialer)

	// Validate before touching the file so a bad delay sends nothing.
	if err := replay.ValidateDelay(m.Sequencer.DelayMillis); err != nil {
		return err
	}

	f, err := os.Open(m.File)
	if err != nil {
		return fmt.Errorf("open %s: %w", m.File, err)
	}
	defer f.Close()

	m.Logger.Verbose("replaying %s with %d ms delay", m.File, m.Sequencer.DelayMillis)
	stats, err := m.Sequencer.Run(ctx, replay.ReaderLines(f))

	if stats.Dropped > 0 {
		m.Logger.Warn("%d of %d lines could not be sent", stats.Dropped, stats.Lines)
	}
	fmt.Fprintf(m.stderr(), "Sent %d lines from %s in %.4f seconds\n",
		stats.Lines, m.File, stats.Seconds())
	return err
}
