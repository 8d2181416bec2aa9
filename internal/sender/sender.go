// Package sender owns the connection to one log receiver.  It resolves
// the endpoint, connects to the first candidate address that accepts,
// frames each message and writes it.  Failures come back as
// *errors.SendError values; the connection never stays half-open.
//
// A Sender is meant for a single goroutine.  Independent Senders share
// nothing and may run in parallel.
package sender

import (
	"context"
	"fmt"
	"net"
	"time"

	lserr "logsend/internal/errors"
	"logsend/internal/frame"
	"logsend/internal/metrics"
	"logsend/internal/transport"
	"logsend/util"
)

// Endpoint is the receiver a Sender talks to.
type Endpoint struct {
	Host string
	Port int
	Kind transport.Kind
}

func (e Endpoint) String() string {
	return util.FormatAddr(e.Host, e.Port) + "/" + e.Kind.String()
}

// connState is either absent{} or connected{...}.
type connState interface{ isConnState() }

type absent struct{}

type connected struct {
	conn      net.Conn
	candidate transport.Candidate
}

func (absent) isConnState()    {}
func (connected) isConnState() {}

// Sender delivers framed records to a single Endpoint.
type Sender struct {
	endpoint Endpoint
	resolver transport.Resolver
	dialer   transport.Dialer
	logger   *util.Logger
	metrics  *metrics.Collector
	now      func() time.Time
	state    connState
}

// New returns a Sender in the Absent state.  Nothing touches the
// network until the first Connect or Send.  m may be nil.
func New(ep Endpoint, r transport.Resolver, d transport.Dialer, logger *util.Logger, m *metrics.Collector) *Sender {
	return &Sender{
		endpoint: ep,
		resolver: r,
		dialer:   d,
		logger:   logger.Named("sender"),
		metrics:  m,
		now:      time.Now,
		state:    absent{},
	}
}

// Endpoint returns the receiver this Sender was built for.
func (s *Sender) Endpoint() Endpoint { return s.endpoint }

// Connected reports whether a connection is currently held.
func (s *Sender) Connected() bool {
	_, ok := s.state.(connected)
	return ok
}

// Candidate returns the address the live connection was made to.
func (s *Sender) Candidate() (transport.Candidate, bool) {
	c, ok := s.state.(connected)
	return c.candidate, ok
}

// Connect establishes the connection if there is none.  Candidates are
// tried in resolver order and the first that accepts wins; each failed
// attempt is closed before the next starts.  The returned error wraps
// [lserr.ErrNoCandidates] when resolution found nothing, or the joined
// per-candidate failures otherwise.
func (s *Sender) Connect(ctx context.Context) error {
	switch s.state.(type) {
	case connected:
		return nil
	case absent:
	}

	candidates, err := s.resolver.Resolve(ctx, s.endpoint.Host, s.endpoint.Port, s.endpoint.Kind)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return lserr.ErrNoCandidates
	}

	var failures []error
	for _, c := range candidates {
		s.metrics.CandidateAttempted()
		conn, err := s.dialer.Dial(ctx, c.Network, c.Address)
		if err != nil {
			if conn != nil {
				conn.Close()
			}
			s.metrics.CandidateFailed()
			s.logger.Debug("candidate %s failed: %v", c, err)
			failures = append(failures, lserr.Wrap("dial", c.Address, err))
			continue
		}

		s.state = connected{conn: conn, candidate: c}
		s.metrics.ConnectionOpened()
		s.logger.Verbose("connected to %s via %s", s.endpoint, c)
		return nil
	}
	return lserr.Join(failures...)
}

// Send frames msg with the current time and writes it.  With no
// connection it connects first; if that fails the message is dropped.
// A failed write closes the connection so the next Send reconnects.
func (s *Sender) Send(ctx context.Context, msg string) error {
	record, err := frame.Format(msg, s.now())
	if err != nil {
		s.metrics.MessageDropped(err.Error())
		return &lserr.SendError{Op: "frame", Endpoint: s.endpoint.String(), Err: err}
	}

	if err := s.Connect(ctx); err != nil {
		s.metrics.MessageDropped(err.Error())
		return &lserr.SendError{Op: "connect", Endpoint: s.endpoint.String(), Err: err}
	}

	c, _ := s.Candidate()
	if err := s.write(record); err != nil {
		s.metrics.MessageDropped(err.Error())
		s.logger.Warn("write to %s failed, connection closed: %v", s.endpoint, err)
		return &lserr.SendError{Op: "write", Endpoint: s.endpoint.String(), Candidate: c.String(), Err: err}
	}

	s.metrics.MessageSent(len(record))
	return nil
}

// write hands the whole record to the transport.  net.Conn.Write
// returns an error unless every byte was accepted.
func (s *Sender) write(record []byte) error {
	c, ok := s.state.(connected)
	if !ok {
		return lserr.ErrNotConnected
	}
	if _, err := c.conn.Write(record); err != nil {
		s.Close() //nolint:errcheck
		return lserr.Wrap("write", c.candidate.Address, err)
	}
	return nil
}

// Close releases the connection, if any.  The Sender may be used again
// afterwards; the next Send reconnects.
func (s *Sender) Close() error {
	c, ok := s.state.(connected)
	s.state = absent{}
	if !ok {
		return nil
	}
	s.logger.Debug("closing connection to %s", c.candidate)
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("close %s: %w", c.candidate.Address, err)
	}
	return nil
}
