package metrics

import "testing"

// BenchmarkCollector_MessageSent measures the per-record counter cost
// on the send path.
func BenchmarkCollector_MessageSent(b *testing.B) {
	c := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.MessageSent(96)
	}
}

// BenchmarkCollector_Snapshot measures the cost of taking a snapshot.
func BenchmarkCollector_Snapshot(b *testing.B) {
	c := New()
	c.ConnectionOpened()
	c.MessageSent(1024)
	c.MessageDropped("test")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Snapshot()
	}
}

// BenchmarkNilCollector verifies nil-safe no-ops have zero overhead.
func BenchmarkNilCollector(b *testing.B) {
	var c *Collector
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.CandidateAttempted()
		c.MessageSent(96)
		c.MessageDropped("test")
	}
}
