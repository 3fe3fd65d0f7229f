package metrics

import (
	"io"

	coremetrics "github.com/tbochard/freightyard/core/metrics"
)

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordOrderEvent forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordOrderEvent(ev coremetrics.OrderEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordOrderEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordResourceLevel forwards resource snapshots to sinks that record them.
func (m *MultiSink) RecordResourceLevel(ev coremetrics.ResourceLevelEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.ResourceLevelRecorder); ok {
			if err := rec.RecordResourceLevel(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordProductLevel forwards product snapshots to sinks that record them.
func (m *MultiSink) RecordProductLevel(ev coremetrics.ProductLevelEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.ProductLevelRecorder); ok {
			if err := rec.RecordProductLevel(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordIdleWorkers forwards pool utilization to sinks that record it.
func (m *MultiSink) RecordIdleWorkers(ev coremetrics.IdleWorkersEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.IdleWorkersRecorder); ok {
			if err := rec.RecordIdleWorkers(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close shuts down every sink that holds external resources.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.Sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
