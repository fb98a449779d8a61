package trace

import (
	"fmt"
	"io"
	"sync"
)

// Recorder is a flight recorder: it keeps the most recent events of a run
// in memory so they can be dumped after a failure or at exit.
type Recorder struct {
	level Level

	mu    sync.Mutex
	buf   []Event
	total uint64 // events ever recorded; buf[total%len(buf)] is the next slot
}

// NewRecorder keeps at most size events; size <= 0 means 4096.
func NewRecorder(size int, level Level) *Recorder {
	if size <= 0 {
		size = 4096
	}
	return &Recorder{level: level, buf: make([]Event, size)}
}

func (r *Recorder) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !r.level.ShouldEmit(ev.Scope) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *ev
	stored.Seq = nextSeq()
	r.buf[r.total%uint64(len(r.buf))] = stored
	r.total++
}

// Snapshot returns the retained events, oldest first.
func (r *Recorder) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	size := uint64(len(r.buf))
	if r.total <= size {
		return append([]Event(nil), r.buf[:r.total]...)
	}
	head := r.total % size
	out := make([]Event, 0, size)
	out = append(out, r.buf[head:]...)
	return append(out, r.buf[:head]...)
}

// Overwritten reports how many events were lost to wrap-around.
func (r *Recorder) Overwritten() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total - min(r.total, uint64(len(r.buf)))
}

// Dump writes the retained events to w, preceded by a note when older
// events were overwritten.
func (r *Recorder) Dump(w io.Writer, format Format) error {
	if n := r.Overwritten(); n > 0 && format != FormatNDJSON {
		if _, err := fmt.Fprintf(w, "# %d earlier events overwritten\n", n); err != nil {
			return err
		}
	}
	for _, ev := range r.Snapshot() {
		if _, err := w.Write(FormatEvent(ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) Flush() error  { return nil }
func (r *Recorder) Close() error  { return nil }
func (r *Recorder) Level() Level  { return r.level }
func (r *Recorder) Enabled() bool { return r.level > LevelOff }
