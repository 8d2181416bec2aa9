// Package transport provides the pieces a sender needs to reach a log
// receiver: resolvers that turn a host into candidate addresses, and
// dialers that open a stream or datagram connection to one candidate.
// What is written over the connection is the sender's business.
package transport

import (
	"context"
	"fmt"
	"net"
)

// Kind selects stream (TCP) or datagram (UDP) delivery.
type Kind int

const (
	Stream Kind = iota
	Datagram
)

// Network returns the base Go network name, "tcp" or "udp".
func (k Kind) Network() string {
	if k == Datagram {
		return "udp"
	}
	return "tcp"
}

func (k Kind) String() string { return k.Network() }

// ParseKind accepts "tcp"/"stream" and "udp"/"datagram".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "tcp", "stream":
		return Stream, nil
	case "udp", "datagram":
		return Datagram, nil
	}
	return Stream, fmt.Errorf("unknown transport %q (want tcp or udp)", s)
}

// Candidate is one resolved destination.  Network carries the address
// family ("tcp4", "udp6", ...) or the bare kind when the address is left
// for someone else to resolve.
type Candidate struct {
	Network string
	Address string
}

func (c Candidate) String() string { return c.Network + "/" + c.Address }

// Resolver turns a host and port into an ordered list of candidates for
// the requested kind.  Order is the resolver's own; callers must not
// re-rank it.
type Resolver interface {
	Resolve(ctx context.Context, host string, port int, kind Kind) ([]Candidate, error)
}

// Dialer opens outbound network connections.  Implementations include
// plain TCP/UDP dialers and an SSH dialer that forwards stream
// connections through a gateway.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer
	// (e.g. an SSH session).  Stateless dialers return nil.
	Close() error
}
