package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Tracer receives trace events. Emit must be safe for concurrent use; file
// workers emit in parallel.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// StorageMode selects where events go. It is a bit set.
type StorageMode uint8

const (
	ModeStream StorageMode = 1 << iota // written as they happen
	ModeRing                           // kept in a Recorder
	ModeBoth   = ModeStream | ModeRing
)

var modeNames = map[string]StorageMode{
	"stream": ModeStream,
	"ring":   ModeRing,
	"both":   ModeBoth,
}

func (m StorageMode) String() string {
	for name, v := range modeNames {
		if v == m {
			return name
		}
	}
	return "unknown"
}

// ParseMode converts a --trace-mode value.
func ParseMode(s string) (StorageMode, error) {
	if m, ok := modeNames[strings.ToLower(s)]; ok {
		return m, nil
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config describes the tracer a run wants.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format        // FormatAuto picks from OutputPath
	Output     io.Writer     // overrides OutputPath
	OutputPath string        // "-" or "" for stderr
	RingSize   int           // Recorder capacity, default 4096
	Heartbeat  time.Duration // 0 disables heartbeats
}

// New builds the tracer for cfg. With ModeBoth events are written and
// recorded; RecorderOf finds the recorder again.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Mode&ModeBoth == 0 {
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}

	var sinks tee
	if cfg.Mode&ModeStream != 0 {
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, NewStreamTracer(w, cfg.Level, outputFormat(cfg)))
	}
	if cfg.Mode&ModeRing != 0 {
		sinks = append(sinks, NewRecorder(cfg.RingSize, cfg.Level))
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return sinks, nil
}

// RecorderOf returns the Recorder inside t, if any.
func RecorderOf(t Tracer) (*Recorder, bool) {
	switch t := t.(type) {
	case *Recorder:
		return t, true
	case tee:
		for _, s := range t {
			if r, ok := RecorderOf(s); ok {
				return r, true
			}
		}
	}
	return nil, false
}

func outputFormat(cfg Config) Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	switch strings.ToLower(filepath.Ext(cfg.OutputPath)) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	}
	return FormatText
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, nil
}

// tee sends every event to each of its tracers. They share one level.
type tee []Tracer

func (t tee) Emit(ev *Event) {
	for _, s := range t {
		// Sinks stamp Seq on the event they get.
		cp := *ev
		s.Emit(&cp)
	}
}

func (t tee) Flush() error {
	var errs []error
	for _, s := range t {
		errs = append(errs, s.Flush())
	}
	return errors.Join(errs...)
}

func (t tee) Close() error {
	var errs []error
	for _, s := range t {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

func (t tee) Level() Level  { return t[0].Level() }
func (t tee) Enabled() bool { return t[0].Enabled() }
