package replay

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	lserr "logsend/internal/errors"
	"logsend/internal/frame"
	"logsend/internal/sender"
	"logsend/internal/transport"
	"logsend/util"
)

// recorder is a Transmitter that remembers what it was asked to send
// and fails on the configured call numbers (1-based).
type recorder struct {
	sent   []string
	failOn map[int]bool
	closed int
	calls  int
}

func (r *recorder) Send(_ context.Context, msg string) error {
	r.calls++
	if r.failOn[r.calls] {
		return &lserr.SendError{Op: "write", Endpoint: "test", Err: errors.New("broken pipe")}
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recorder) Close() error { r.closed++; return nil }

type failingLines struct{ Lines }

func (failingLines) Err() error { return errors.New("disk on fire") }

func TestValidateDelay(t *testing.T) {
	tests := []struct {
		ms      int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{500, false},
		{1000, false},
		{-1, true},
		{1001, true},
	}
	for _, tt := range tests {
		err := ValidateDelay(tt.ms)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateDelay(%d) = %v, wantErr %v", tt.ms, err, tt.wantErr)
		}
		if err != nil && !lserr.IsConfig(err) {
			t.Errorf("ValidateDelay(%d) error should be a ConfigError: %T", tt.ms, err)
		}
	}
}

func TestRun_RejectsDelayBeforeSending(t *testing.T) {
	for _, ms := range []int{-1, 1001} {
		rec := &recorder{}
		q := &Sequencer{Sender: rec, DelayMillis: ms}

		_, err := q.Run(context.Background(), SliceLines([]string{"a"}))
		if !lserr.IsConfig(err) {
			t.Fatalf("delay %d: err = %v, want ConfigError", ms, err)
		}
		if rec.calls != 0 || rec.closed != 0 {
			t.Errorf("delay %d: sender touched (calls=%d closed=%d)", ms, rec.calls, rec.closed)
		}
	}
}

func TestRun_SendsInOrderAndSleepsAfterEach(t *testing.T) {
	rec := &recorder{}
	var slept []time.Duration
	q := &Sequencer{
		Sender:      rec,
		DelayMillis: 250,
		Sleep:       func(d time.Duration) { slept = append(slept, d) },
	}

	stats, err := q.Run(context.Background(), SliceLines([]string{"a", "b", "c"}))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Lines != 3 || stats.Dropped != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if len(rec.sent) != 3 || rec.sent[0] != "a" || rec.sent[2] != "c" {
		t.Errorf("sent = %v", rec.sent)
	}
	// The pause follows every line, including the last.
	if len(slept) != 3 {
		t.Fatalf("slept %d times, want 3", len(slept))
	}
	for _, d := range slept {
		if d != 250*time.Millisecond {
			t.Errorf("slept %v, want 250ms", d)
		}
	}
	if rec.closed != 1 {
		t.Errorf("closed %d times, want 1", rec.closed)
	}
}

func TestRun_ContinuesAfterFailedSend(t *testing.T) {
	rec := &recorder{failOn: map[int]bool{2: true, 3: true}}
	q := &Sequencer{Sender: rec, Sleep: func(time.Duration) {}}

	stats, err := q.Run(context.Background(), SliceLines([]string{"1", "2", "3", "4", "5"}))
	if err != nil {
		t.Fatalf("failures must not surface by default: %v", err)
	}
	if stats.Lines != 5 {
		t.Errorf("Lines = %d, want 5", stats.Lines)
	}
	if stats.Dropped != 2 {
		t.Errorf("Dropped = %d, want 2", stats.Dropped)
	}
	if rec.calls != 5 {
		t.Errorf("calls = %d, want 5", rec.calls)
	}
}

func TestRun_StrictStopsAtFirstFailure(t *testing.T) {
	rec := &recorder{failOn: map[int]bool{2: true}}
	q := &Sequencer{Sender: rec, Strict: true, Sleep: func(time.Duration) {}}

	stats, err := q.Run(context.Background(), SliceLines([]string{"1", "2", "3"}))
	if !lserr.IsSendOp(err, "write") {
		t.Fatalf("err = %v, want write SendError", err)
	}
	if stats.Lines != 2 || rec.calls != 2 {
		t.Errorf("stats=%+v calls=%d", stats, rec.calls)
	}
	if rec.closed != 1 {
		t.Error("sender must be closed on strict abort")
	}
}

func TestRun_EmptyInput(t *testing.T) {
	rec := &recorder{}
	stats, err := (&Sequencer{Sender: rec}).Run(context.Background(), SliceLines(nil))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Lines != 0 || rec.closed != 1 {
		t.Errorf("stats=%+v closed=%d", stats, rec.closed)
	}
}

func TestRun_SourceError(t *testing.T) {
	rec := &recorder{}
	q := &Sequencer{Sender: rec, Sleep: func(time.Duration) {}}

	stats, err := q.Run(context.Background(), failingLines{SliceLines([]string{"x"})})
	if err == nil {
		t.Fatal("expected source error")
	}
	if stats.Lines != 1 || rec.closed != 1 {
		t.Errorf("stats=%+v closed=%d", stats, rec.closed)
	}
}

func TestRun_ElapsedCoversDelays(t *testing.T) {
	rec := &recorder{}
	q := &Sequencer{Sender: rec, DelayMillis: 20}

	stats, err := q.Run(context.Background(), SliceLines([]string{"a", "b", "c", "d"}))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Elapsed < 80*time.Millisecond {
		t.Errorf("elapsed %v, want >= 80ms", stats.Elapsed)
	}
}

func TestStats_Seconds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want float64
	}{
		{0, 0},
		{1234567890 * time.Nanosecond, 1.2346},
		{300 * time.Millisecond, 0.3},
		{50 * time.Microsecond, 0.0001},
	}
	for _, tt := range tests {
		if got := (Stats{Elapsed: tt.d}).Seconds(); got != tt.want {
			t.Errorf("Seconds(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestStringLines(t *testing.T) {
	l := StringLines("one\ntwo\r\nthree")
	var got []string
	for l.Scan() {
		got = append(got, l.Text())
	}
	if len(got) != 3 || got[0] != "one" || got[2] != "three" {
		t.Errorf("got %q", got)
	}
}

func TestReaderLines(t *testing.T) {
	long := strings.Repeat("x", 2<<20)
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"blank lines kept", "a\n\nb\n", []string{"a", "", "b"}},
		{"line over a megabyte", "one\n" + long + "\nthree\n", []string{"one", long, "three"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ReaderLines(strings.NewReader(tt.in))
			var got []string
			for l.Scan() {
				got = append(got, l.Text())
			}
			if l.Err() != nil {
				t.Fatalf("Err() = %v", l.Err())
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d differs (len %d, want len %d)", i, len(got[i]), len(tt.want[i]))
				}
			}
		})
	}
}

func TestReaderLines_ReadError(t *testing.T) {
	cause := errors.New("disk gone")
	l := ReaderLines(io.MultiReader(strings.NewReader("a\n"), iotest.ErrReader(cause)))

	if !l.Scan() || l.Text() != "a" {
		t.Fatal("first line should be read")
	}
	if l.Scan() {
		t.Fatal("Scan should stop at the read error")
	}
	if !errors.Is(l.Err(), cause) {
		t.Errorf("Err() = %v, want %v", l.Err(), cause)
	}
}

// TestRun_ThreeLinesOverTCP replays three lines with a 100ms pause
// against a loopback receiver.
func TestRun_ThreeLinesOverTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	received := make(chan []string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var got []string
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			p, _ := frame.Payload(sc.Text())
			got = append(got, p)
		}
		received <- got
	}()

	ep := sender.Endpoint{Host: "127.0.0.1", Port: ln.Addr().(*net.TCPAddr).Port, Kind: transport.Stream}
	s := sender.New(ep, &transport.NetResolver{}, &transport.TCPDialer{Timeout: 2 * time.Second}, util.NewLogger(0), nil)

	q := &Sequencer{Sender: s, DelayMillis: 100}
	stats, err := q.Run(context.Background(), StringLines("first line\nsecond line\nthird line\n"))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Lines != 3 {
		t.Errorf("Lines = %d, want 3", stats.Lines)
	}
	if stats.Seconds() < 0.3 {
		t.Errorf("elapsed %.4fs, want >= 0.3", stats.Seconds())
	}

	select {
	case got := <-received:
		want := []string{"first line", "second line", "third line"}
		if len(got) != len(want) {
			t.Fatalf("receiver got %q", got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("record %d = %q, want %q", i, got[i], want[i])
			}
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for records")
	}
}

// TestRun_ReceiverGoesAway checks a replay keeps going, and keeps
// counting, after the receiver disappears mid-stream.
func TestRun_ReceiverGoesAway(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		bufio.NewReader(conn).ReadString('\n') //nolint:errcheck
		conn.Close()
		ln.Close()
	}()

	ep := sender.Endpoint{Host: "127.0.0.1", Port: port, Kind: transport.Stream}
	s := sender.New(ep, &transport.NetResolver{}, &transport.TCPDialer{Timeout: time.Second}, util.NewLogger(0), nil)

	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "payload"
	}
	q := &Sequencer{Sender: s, DelayMillis: 10}
	stats, err := q.Run(context.Background(), SliceLines(lines))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Lines != len(lines) {
		t.Errorf("Lines = %d, want %d", stats.Lines, len(lines))
	}
}
