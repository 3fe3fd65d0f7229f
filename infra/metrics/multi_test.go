package metrics

import (
	"testing"

	coremetrics "github.com/tbochard/freightyard/core/metrics"
)

type recordSink struct {
	orders int
	levels int
}

func (r *recordSink) RecordOrderEvent(coremetrics.OrderEvent) error {
	r.orders++
	return nil
}

func (r *recordSink) RecordResourceLevel(coremetrics.ResourceLevelEvent) error {
	r.levels++
	return nil
}

// orderOnlySink implements the base interface without any optional recorder.
type orderOnlySink struct {
	orders int
}

func (r *orderOnlySink) RecordOrderEvent(coremetrics.OrderEvent) error {
	r.orders++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &orderOnlySink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordOrderEvent(coremetrics.OrderEvent{}); err != nil {
		t.Fatalf("record order: %v", err)
	}
	if err := m.RecordResourceLevel(coremetrics.ResourceLevelEvent{}); err != nil {
		t.Fatalf("record level: %v", err)
	}
	if s1.orders != 1 || s1.levels != 1 {
		t.Fatalf("events not forwarded to the full sink")
	}
	if s2.orders != 1 {
		t.Fatalf("order not forwarded to the base sink")
	}
}
