package transport

import (
	"context"
	"fmt"
	"net"

	lserr "logsend/internal/errors"
	"logsend/util"
)

// NetResolver resolves hosts with the system resolver and emits one
// candidate per address, across every family the resolver returns.
type NetResolver struct {
	// Resolver defaults to net.DefaultResolver.
	Resolver *net.Resolver
	// NoDNS restricts the host to a numeric IP literal.
	NoDNS bool
}

// Resolve implements [Resolver].  A lookup that produces nothing is
// reported as [lserr.ErrNoCandidates].
func (r *NetResolver) Resolve(ctx context.Context, host string, port int, kind Kind) ([]Candidate, error) {
	if r.NoDNS {
		if err := util.RequireNumericHost(host); err != nil {
			return nil, fmt.Errorf("%w: %w", lserr.ErrNoCandidates, err)
		}
	}

	res := r.Resolver
	if res == nil {
		res = net.DefaultResolver
	}

	addrs, err := res.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", lserr.ErrNoCandidates,
			lserr.Wrap("resolve", host, err))
	}
	return candidatesFor(addrs, port, kind)
}

// candidatesFor maps resolved addresses to candidates, keeping order.
func candidatesFor(addrs []net.IPAddr, port int, kind Kind) ([]Candidate, error) {
	out := make([]Candidate, 0, len(addrs))
	for _, a := range addrs {
		family := util.FamilyOf(a.IP)
		if family == "" {
			continue
		}
		out = append(out, Candidate{
			Network: kind.Network() + family,
			Address: util.FormatAddr(a.String(), port),
		})
	}
	if len(out) == 0 {
		return nil, lserr.ErrNoCandidates
	}
	return out, nil
}

// PassthroughResolver hands the host back unresolved as a single
// candidate.  It is used with gateway dialers, where the far side does
// the name lookup.
type PassthroughResolver struct{}

// Resolve implements [Resolver].
func (PassthroughResolver) Resolve(_ context.Context, host string, port int, kind Kind) ([]Candidate, error) {
	if host == "" {
		return nil, lserr.ErrNoCandidates
	}
	return []Candidate{{Network: kind.Network(), Address: util.FormatAddr(host, port)}}, nil
}
