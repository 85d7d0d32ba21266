package engine

import (
	"fmt"
	"testing"
)

func TestLogIngesterAppendOrder(t *testing.T) {
	l := NewLogIngester()

	l.Append("alpha", "first")
	l.Append("alpha", "second")
	l.Append("beta", "other")

	got := l.Buffer("alpha")
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("Buffer = %v, want [first second]", got)
	}
	if got := l.Buffer("beta"); len(got) != 1 || got[0] != "other" {
		t.Errorf("per-instance isolation broken: Buffer(beta) = %v", got)
	}
}

func TestLogIngesterUnknownInstance(t *testing.T) {
	l := NewLogIngester()
	if got := l.Buffer("ghost"); len(got) != 0 {
		t.Errorf("Buffer for unknown instance = %v, want empty", got)
	}
}

func TestLogIngesterRingEviction(t *testing.T) {
	l := NewLogIngester()

	for i := 0; i < LogCap+25; i++ {
		l.Append("alpha", fmt.Sprintf("line %d", i))
	}

	got := l.Buffer("alpha")
	if len(got) != LogCap {
		t.Fatalf("Buffer = %d lines, want capped at %d", len(got), LogCap)
	}
	if got[0] != "line 25" {
		t.Errorf("oldest surviving line = %q, want %q", got[0], "line 25")
	}
	if got[len(got)-1] != fmt.Sprintf("line %d", LogCap+24) {
		t.Errorf("newest line = %q, want line %d", got[len(got)-1], LogCap+24)
	}
}

func TestLogIngesterRemove(t *testing.T) {
	l := NewLogIngester()

	l.Append("alpha", "hello")
	l.Remove("alpha")
	if got := l.Buffer("alpha"); len(got) != 0 {
		t.Errorf("Buffer after Remove = %v, want empty", got)
	}

	// A fresh buffer starts clean after removal.
	l.Append("alpha", "again")
	if got := l.Buffer("alpha"); len(got) != 1 || got[0] != "again" {
		t.Errorf("Buffer after re-append = %v, want [again]", got)
	}
}
