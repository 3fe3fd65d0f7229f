package fsm

import "time"

// State is one node of a StateMachine. OnEnter and OnExit frame the time spent
// in the state; Tick runs once per scheduler tick while the state is current.
type State interface {
	OnEnter()
	OnExit()
	Tick(dt time.Duration)
}

type transition struct {
	from State
	to   State
	cond func() bool
}

// StateMachine holds a current state and an ordered set of guarded
// transitions. It performs at most one transition per tick: transitions out of
// the current state are evaluated in registration order and the first whose
// predicate holds fires. If none fire, the current state's own Tick runs.
type StateMachine struct {
	current     State
	transitions []transition
}

// New creates an empty StateMachine. Call SetState before the first Tick.
func New() *StateMachine { return &StateMachine{} }

// AddTransition registers a guarded edge between two states.
func (m *StateMachine) AddTransition(from, to State, cond func() bool) {
	m.transitions = append(m.transitions, transition{from: from, to: to, cond: cond})
}

// SetState forces the machine into s without firing the exit hook of any
// previous state. The new state's OnEnter runs.
func (m *StateMachine) SetState(s State) {
	m.current = s
	if s != nil {
		s.OnEnter()
	}
}

// Current returns the active state.
func (m *StateMachine) Current() State { return m.current }

// Tick advances the machine by dt.
func (m *StateMachine) Tick(dt time.Duration) {
	if m.current == nil {
		return
	}
	for _, t := range m.transitions {
		if t.from != m.current || !t.cond() {
			continue
		}
		m.current.OnExit()
		m.current = t.to
		t.to.OnEnter()
		return
	}
	m.current.Tick(dt)
}
