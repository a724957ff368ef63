package outcome_test

import (
	"testing"
	"time"

	"github.com/crashgames/plinkostat/outcome"
)

func TestMostRecentFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	at := func(minAgo int) outcome.Outcome {
		return outcome.Outcome{RecordedAt: base.Add(-time.Duration(minAgo) * time.Minute)}
	}

	if !outcome.MostRecentFirst(nil) {
		t.Fatal("empty window should pass")
	}
	if !outcome.MostRecentFirst([]outcome.Outcome{at(0), at(1), at(5)}) {
		t.Fatal("descending window should pass")
	}
	// equal timestamps are allowed
	if !outcome.MostRecentFirst([]outcome.Outcome{at(1), at(1), at(2)}) {
		t.Fatal("ties should pass")
	}
	if outcome.MostRecentFirst([]outcome.Outcome{at(5), at(1)}) {
		t.Fatal("ascending window should fail")
	}
}

func TestMultipliers(t *testing.T) {
	window := []outcome.Outcome{{Multiplier: 0.5}, {Multiplier: 9.0}}
	got := outcome.Multipliers(window)
	if len(got) != 2 || got[0] != 0.5 || got[1] != 9.0 {
		t.Fatalf("Multipliers got %v", got)
	}
}
