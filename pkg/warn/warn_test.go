package warn

import (
	"testing"
)

func TestCollectorOncePerKind(t *testing.T) {
	c := NewCollector()

	var notified []Kind
	c.OnAdd(func(w Warning) { notified = append(notified, w.Kind) })

	for i := 0; i < 5; i++ {
		c.Add(ShortSequence)
	}
	c.Add(GapCharacters)
	if c.Add(ShortSequence) {
		t.Error("Add() on a repeated kind reported new")
	}

	got := c.Warnings()
	if len(got) != 2 {
		t.Fatalf("len(Warnings()) = %d, want 2", len(got))
	}
	if got[0].Kind != ShortSequence || got[1].Kind != GapCharacters {
		t.Errorf("order = [%s %s], want [short-sequence gap-characters]", got[0].Kind, got[1].Kind)
	}
	if len(notified) != 2 {
		t.Errorf("OnAdd called %d times, want 2", len(notified))
	}
	if !c.Has(GapCharacters) || c.Has(UnequalLength) {
		t.Error("Has() reports wrong kinds")
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	if c.Add(UnequalLength) {
		t.Error("nil collector should discard")
	}
	if c.Warnings() != nil {
		t.Error("nil collector should have no warnings")
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{ShortSequence, messages[ShortSequence]},
		{Kind("custom"), "custom"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := Message(tt.kind); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}
