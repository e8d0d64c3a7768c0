package collector

import (
	"testing"
	"time"
)

func TestSessionFor_Suffix(t *testing.T) {
	tests := []struct {
		symbol string
		mic    string
	}{
		{"AAPL", "xnys"},
		{"RELIANCE.NS", "xnse"},
		{"reliance.ns", "xnse"},
		{"VOD.L", "xlon"},
		{"WEIRD.ZZ", "xnys"},
	}
	for _, tt := range tests {
		if got := SessionFor(tt.symbol).MIC; got != tt.mic {
			t.Errorf("SessionFor(%q).MIC = %q, want %q", tt.symbol, got, tt.mic)
		}
	}
}

func TestMarketSession_ClosedOnWeekend(t *testing.T) {
	s := SessionFor("AAPL")
	// Saturday noon in New York.
	sat := time.Date(2024, 6, 8, 16, 0, 0, 0, time.UTC)
	if s.IsOpen(sat) {
		t.Error("market reported open on Saturday")
	}
}
