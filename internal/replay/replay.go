// Package replay sends a sequence of lines through a transmitter with a
// fixed pause after each one and reports how long it took.
package replay

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	lserr "logsend/internal/errors"
	"logsend/util"
)

// MaxDelayMillis is the largest accepted pause between messages.
const MaxDelayMillis = 1000

// Transmitter is the part of a sender the sequencer drives.
type Transmitter interface {
	Send(ctx context.Context, msg string) error
	Close() error
}

// Lines is an ordered, finite source of messages.  *bufio.Scanner
// satisfies it, but caps line length; [ReaderLines] does not.
type Lines interface {
	Scan() bool
	Text() string
	Err() error
}

// Stats summarises a finished replay.
type Stats struct {
	Lines   int
	Dropped int
	Elapsed time.Duration
}

// Seconds returns the elapsed time rounded to four decimal places.
func (s Stats) Seconds() float64 {
	return math.Round(s.Elapsed.Seconds()*1e4) / 1e4
}

// ValidateDelay rejects pauses outside [0, MaxDelayMillis].
func ValidateDelay(ms int) error {
	if ms < 0 || ms > MaxDelayMillis {
		return &lserr.ConfigError{
			Field:   "delay",
			Value:   ms,
			Message: fmt.Sprintf("out of range 0-%d", MaxDelayMillis),
			Hint:    fmt.Sprintf("use a delay between 0 and %d milliseconds", MaxDelayMillis),
		}
	}
	return nil
}

// Sequencer paces lines into a Transmitter.
type Sequencer struct {
	Sender      Transmitter
	DelayMillis int
	// Strict stops at the first failed send and returns its error.
	// By default failures are logged and the run continues.
	Strict bool
	Logger *util.Logger

	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Run sends every line in order, sleeping DelayMillis after each one,
// the last included.  The sender is closed before Run returns.  An
// invalid delay is rejected before anything is sent.
func (q *Sequencer) Run(ctx context.Context, lines Lines) (Stats, error) {
	if err := ValidateDelay(q.DelayMillis); err != nil {
		return Stats{}, err
	}

	sleep := q.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	delay := time.Duration(q.DelayMillis) * time.Millisecond
	log := q.logger()

	var stats Stats
	start := time.Now()

	var runErr error
	for lines.Scan() {
		if err := q.Sender.Send(ctx, lines.Text()); err != nil {
			stats.Dropped++
			log.Verbose("line %d dropped: %v", stats.Lines+1, err)
			if q.Strict {
				stats.Lines++
				runErr = fmt.Errorf("line %d: %w", stats.Lines, err)
				break
			}
		}
		sleep(delay)
		stats.Lines++
	}

	if err := q.Sender.Close(); err != nil {
		log.Debug("close: %v", err)
	}
	stats.Elapsed = time.Since(start)

	if runErr != nil {
		return stats, runErr
	}
	if err := lines.Err(); err != nil {
		return stats, fmt.Errorf("reading lines: %w", err)
	}
	return stats, nil
}

func (q *Sequencer) logger() *util.Logger {
	if q.Logger == nil {
		return util.NewLogger(0).Named("replay")
	}
	return q.Logger.Named("replay")
}

// SliceLines adapts a slice to Lines.
func SliceLines(lines []string) Lines {
	return &sliceLines{lines: lines, i: -1}
}

type sliceLines struct {
	lines []string
	i     int
}

func (s *sliceLines) Scan() bool {
	if s.i+1 >= len(s.lines) {
		return false
	}
	s.i++
	return true
}

func (s *sliceLines) Text() string { return s.lines[s.i] }
func (s *sliceLines) Err() error   { return nil }

// ReaderLines yields the newline-separated lines of r with the line
// ending removed.  Lines may be of any length.  A final line without a
// newline is still yielded.
func ReaderLines(r io.Reader) Lines {
	return &readerLines{r: bufio.NewReader(r)}
}

type readerLines struct {
	r    *bufio.Reader
	line string
	err  error
	done bool
}

func (l *readerLines) Scan() bool {
	if l.done {
		return false
	}
	line, err := l.r.ReadString('\n')
	if err != nil {
		l.done = true
		if err != io.EOF {
			l.err = err
			return false
		}
		if line == "" {
			return false
		}
	}
	l.line = strings.TrimRight(line, "\r\n")
	return true
}

func (l *readerLines) Text() string { return l.line }
func (l *readerLines) Err() error   { return l.err }

// StringLines splits text on newlines, as ReaderLines would a file.
func StringLines(text string) Lines {
	return ReaderLines(strings.NewReader(text))
}
