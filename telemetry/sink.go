// Package telemetry persists the director's outbound events for external
// balancing and analytics tooling.
package telemetry

import (
	"fmt"
	"io"
	"strings"

	"github.com/milk9111/tension/director"
)

// Sink records outbound director events.
type Sink interface {
	Record(evt director.Event) error
	Close() error
}

// LogSink writes events as text lines, one per event.
type LogSink struct {
	w io.Writer
}

// NewLogSink creates a sink writing to w.
func NewLogSink(w io.Writer) *LogSink {
	return &LogSink{w: w}
}

// Record writes one line describing evt.
func (s *LogSink) Record(evt director.Event) error {
	if s == nil || s.w == nil {
		return nil
	}
	var err error
	switch data := evt.Data.(type) {
	case director.SpawnCommand:
		_, err = fmt.Fprintf(s.w, "[%8.2fs] spawn %-7s rate=%.2f %s\n", data.Time, data.Tier, data.Rate, strings.Join(data.Entities, ","))
	case director.PhaseChangeEvent:
		forced := ""
		if data.Forced {
			forced = " (forced)"
		}
		_, err = fmt.Fprintf(s.w, "[%8.2fs] phase %s -> %s%s\n", data.Time, data.From, data.To, forced)
	case director.TelemetrySample:
		_, err = fmt.Fprintf(s.w, "[%8.2fs] signal=%.3f phase=%s\n", data.Time, data.TeamSignal, data.Phase)
	case *director.QualityGateWarning:
		_, err = fmt.Fprintf(s.w, "[%8.2fs] warning: %v\n", data.Time, data)
	default:
		_, err = fmt.Fprintf(s.w, "event %s: %v\n", evt.Kind, evt.Data)
	}
	return err
}

// Close is a no-op for log sinks.
func (s *LogSink) Close() error { return nil }

// Multi fans Record out to every sink.
type Multi []Sink

// Record forwards evt to each sink, returning the first error.
func (m Multi) Record(evt director.Event) error {
	var first error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Record(evt); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes each sink, returning the first error.
func (m Multi) Close() error {
	var first error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
