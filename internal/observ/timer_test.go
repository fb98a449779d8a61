package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("discover")
	tm.End(idx, "3 files")
	tm.Add("check", 2*time.Millisecond, "")
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(r.Phases))
	}
	if r.Phases[0].Note != "3 files" || r.Phases[1].DurationMS != 2 {
		t.Errorf("unexpected phases: %+v", r.Phases)
	}
	if r.TotalMS < 2 {
		t.Errorf("total %.3f should include the added phase", r.TotalMS)
	}
	s := tm.Summary()
	if !strings.Contains(s, "discover") || !strings.Contains(s, "// 3 files") || !strings.Contains(s, "total") {
		t.Errorf("summary missing rows:\n%s", s)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	idx := tm.Begin("x")
	if idx != -1 {
		t.Errorf("Begin on nil timer = %d, want -1", idx)
	}
	tm.End(idx, "")
	tm.Add("y", time.Second, "")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Errorf("nil timer reported phases: %+v", r)
	}
}
