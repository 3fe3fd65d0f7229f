package fsm

import (
	"testing"
	"time"
)

type recordState struct {
	name  string
	trace *[]string
}

func (s *recordState) OnEnter()           { *s.trace = append(*s.trace, s.name+":enter") }
func (s *recordState) OnExit()            { *s.trace = append(*s.trace, s.name+":exit") }
func (s *recordState) Tick(time.Duration) { *s.trace = append(*s.trace, s.name+":tick") }

func TestSetStateEntersWithoutExit(t *testing.T) {
	var trace []string
	a := &recordState{name: "a", trace: &trace}
	m := New()
	m.SetState(a)
	if len(trace) != 1 || trace[0] != "a:enter" {
		t.Fatalf("unexpected trace %v", trace)
	}
	if m.Current() != a {
		t.Fatalf("expected current state a")
	}
}

func TestTickFiresFirstMatchingTransition(t *testing.T) {
	var trace []string
	a := &recordState{name: "a", trace: &trace}
	b := &recordState{name: "b", trace: &trace}
	c := &recordState{name: "c", trace: &trace}
	m := New()
	m.AddTransition(a, b, func() bool { return true })
	m.AddTransition(a, c, func() bool { return true })
	m.SetState(a)
	trace = nil

	m.Tick(time.Second)
	if len(trace) != 2 || trace[0] != "a:exit" || trace[1] != "b:enter" {
		t.Fatalf("unexpected trace %v", trace)
	}
	if m.Current() != b {
		t.Fatalf("expected transition to b, not c")
	}
}

func TestTickRunsCurrentStateWhenNoTransitionFires(t *testing.T) {
	var trace []string
	a := &recordState{name: "a", trace: &trace}
	b := &recordState{name: "b", trace: &trace}
	m := New()
	m.AddTransition(a, b, func() bool { return false })
	m.SetState(a)
	trace = nil

	m.Tick(time.Second)
	if len(trace) != 1 || trace[0] != "a:tick" {
		t.Fatalf("unexpected trace %v", trace)
	}
}

func TestAtMostOneTransitionPerTick(t *testing.T) {
	var trace []string
	a := &recordState{name: "a", trace: &trace}
	b := &recordState{name: "b", trace: &trace}
	c := &recordState{name: "c", trace: &trace}
	m := New()
	m.AddTransition(a, b, func() bool { return true })
	m.AddTransition(b, c, func() bool { return true })
	m.SetState(a)
	trace = nil

	m.Tick(time.Second)
	if m.Current() != b {
		t.Fatalf("expected to stop at b after one tick, at %v", m.Current())
	}
	m.Tick(time.Second)
	if m.Current() != c {
		t.Fatalf("expected c after the second tick")
	}
}

func TestIdleBroadcastsOnEnter(t *testing.T) {
	idle := NewIdle(nil)
	entered := 0
	idle.Started.Subscribe(func(struct{}) { entered++ })
	m := New()
	m.SetState(idle)
	if entered != 1 {
		t.Fatalf("expected idle-started broadcast, got %d", entered)
	}
	m.Tick(time.Second)
	if entered != 1 {
		t.Fatalf("idle tick must not re-broadcast, got %d", entered)
	}
}
