// Package fsm is a small table-driven finite state machine.
package fsm

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrTransition is returned when the table has no entry for the
	// current state and event; the state is left unchanged.
	ErrTransition = errors.New("fsm: no transition")
	// ErrGuardRejected is returned when a transition's guard vetoes it.
	ErrGuardRejected = errors.New("fsm: guard rejected")
)

// Transition describes one edge of the machine.
type Transition[S, E comparable] struct {
	From  S
	Event E
	To    S
	// Guard, when set, must return true for the transition to fire.
	Guard func(ctx context.Context) bool
}

// Callback observes a transition after it happened.
type Callback[S, E comparable] func(ctx context.Context, from, to S, event E)

type edge[S, E comparable] struct {
	from  S
	event E
}

// Machine is a thread-safe state machine over comparable state and event
// types.
type Machine[S, E comparable] struct {
	mu      sync.Mutex
	current S
	table   map[edge[S, E]]Transition[S, E]

	onEnter      map[S][]Callback[S, E]
	onExit       map[S][]Callback[S, E]
	onTransition []Callback[S, E]
}

// New builds a machine starting at initial. Duplicate (from, event) pairs
// are an error.
func New[S, E comparable](initial S, transitions []Transition[S, E]) (*Machine[S, E], error) {
	table := make(map[edge[S, E]]Transition[S, E], len(transitions))
	for _, tr := range transitions {
		key := edge[S, E]{from: tr.From, event: tr.Event}
		if _, exists := table[key]; exists {
			return nil, fmt.Errorf("fsm: duplicate transition from %v on %v", tr.From, tr.Event)
		}
		table[key] = tr
	}
	return &Machine[S, E]{
		current: initial,
		table:   table,
		onEnter: map[S][]Callback[S, E]{},
		onExit:  map[S][]Callback[S, E]{},
	}, nil
}

// Current returns the current state.
func (m *Machine[S, E]) Current() S {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Can reports whether event has a transition from the current state. Guards
// are not consulted.
func (m *Machine[S, E]) Can(event E) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.table[edge[S, E]{from: m.current, event: event}]
	return ok
}

// Fire applies event. On success the state advances and callbacks run in
// exit, transition, enter order.
func (m *Machine[S, E]) Fire(ctx context.Context, event E) error {
	m.mu.Lock()
	from := m.current
	tr, ok := m.table[edge[S, E]{from: from, event: event}]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: from %v on %v", ErrTransition, from, event)
	}
	if tr.Guard != nil && !tr.Guard(ctx) {
		m.mu.Unlock()
		return fmt.Errorf("%w: from %v on %v", ErrGuardRejected, from, event)
	}
	m.current = tr.To
	exits := m.onExit[from]
	enters := m.onEnter[tr.To]
	transitions := m.onTransition
	m.mu.Unlock()

	for _, cb := range exits {
		cb(ctx, from, tr.To, event)
	}
	for _, cb := range transitions {
		cb(ctx, from, tr.To, event)
	}
	for _, cb := range enters {
		cb(ctx, from, tr.To, event)
	}
	return nil
}

// OnEnter registers a callback for entering state.
func (m *Machine[S, E]) OnEnter(state S, cb Callback[S, E]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEnter[state] = append(m.onEnter[state], cb)
}

// OnExit registers a callback for leaving state.
func (m *Machine[S, E]) OnExit(state S, cb Callback[S, E]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExit[state] = append(m.onExit[state], cb)
}

// OnTransition registers a callback for every transition.
func (m *Machine[S, E]) OnTransition(cb Callback[S, E]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTransition = append(m.onTransition, cb)
}
