// Package frame builds the syslog records logsend puts on the wire.
//
// A record has the shape
//
//	<14>1 2006-01-02T15:04:05.000001Z GO_TEST_SENDER - - - - message\n
//
// which is RFC 5424 with a fixed priority, the tag in the HOSTNAME
// slot and every remaining header field nil.  Records are rendered by
// github.com/crewjam/rfc5424; this package pins the field choices and
// the newline framing.
package frame

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/crewjam/rfc5424"
)

const (
	// Priority is facility user (1) * 8 + severity informational (6).
	Priority = rfc5424.User | rfc5424.Info

	// Version is the RFC 5424 protocol version.
	Version = 1

	// AppTag identifies logsend as the traffic source.
	AppTag = "GO_TEST_SENDER"
)

// Prefix is the literal every record starts with.
var Prefix = "<" + strconv.Itoa(int(Priority)) + ">" + strconv.Itoa(Version) + " "

// Format returns the framed record for msg stamped with now, in UTC
// with at most microsecond precision.  Trailing CR and LF characters
// are stripped from msg so the record always ends in exactly one
// newline.  The returned slice is freshly allocated.
func Format(msg string, now time.Time) ([]byte, error) {
	msg = strings.TrimRight(msg, "\r\n")

	m := rfc5424.Message{
		Priority:  Priority,
		Timestamp: now.UTC().Truncate(time.Microsecond),
		Hostname:  AppTag,
		Message:   []byte(msg),
	}
	rec, err := m.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}

	// An empty MSG still gets its separating space.
	if msg == "" && !bytes.HasSuffix(rec, []byte(" ")) {
		rec = append(rec, ' ')
	}
	return append(rec, '\n'), nil
}

// Payload extracts the message field from a record produced by
// Format.  ok is false if rec does not parse or was not sent by us.
func Payload(rec string) (msg string, ok bool) {
	var m rfc5424.Message
	if err := m.UnmarshalBinary([]byte(strings.TrimSuffix(rec, "\n"))); err != nil {
		return "", false
	}
	if m.Priority != Priority || m.Hostname != AppTag {
		return "", false
	}
	return string(m.Message), true
}
