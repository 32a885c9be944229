package fsm

import (
	"context"
	"errors"
	"testing"
)

type state string

type event string

const (
	idle    state = "idle"
	loading state = "loading"
	loaded  state = "loaded"
	failed  state = "failed"

	load    event = "load"
	succeed event = "succeed"
	fail    event = "fail"
	reset   event = "reset"
)

func newLoader(t *testing.T) *Machine[state, event] {
	t.Helper()
	m, err := New(idle, []Transition[state, event]{
		{From: idle, Event: load, To: loading},
		{From: loading, Event: succeed, To: loaded},
		{From: loading, Event: fail, To: failed},
		{From: failed, Event: reset, To: idle},
		{From: loaded, Event: reset, To: idle},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return m
}

func TestHappyPath(t *testing.T) {
	ctx := context.Background()
	m := newLoader(t)

	if m.Current() != idle {
		t.Fatalf("initial state = %v", m.Current())
	}
	if !m.Can(load) || m.Can(succeed) {
		t.Fatalf("Can() wrong for idle")
	}
	for _, ev := range []event{load, succeed, reset} {
		if err := m.Fire(ctx, ev); err != nil {
			t.Fatalf("fire %v: %v", ev, err)
		}
	}
	if m.Current() != idle {
		t.Fatalf("final state = %v", m.Current())
	}
}

func TestInvalidTransitionLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	m := newLoader(t)

	err := m.Fire(ctx, succeed)
	if !errors.Is(err, ErrTransition) {
		t.Fatalf("err = %v, want ErrTransition", err)
	}
	if m.Current() != idle {
		t.Fatalf("state changed on rejected event: %v", m.Current())
	}
}

func TestGuard(t *testing.T) {
	ctx := context.Background()
	allow := false
	m, err := New(idle, []Transition[state, event]{
		{From: idle, Event: load, To: loading, Guard: func(ctx context.Context) bool { return allow }},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := m.Fire(ctx, load); !errors.Is(err, ErrGuardRejected) {
		t.Fatalf("err = %v, want ErrGuardRejected", err)
	}
	if m.Current() != idle {
		t.Fatalf("guarded transition changed state")
	}
	allow = true
	if err := m.Fire(ctx, load); err != nil {
		t.Fatalf("fire with open guard: %v", err)
	}
	if m.Current() != loading {
		t.Fatalf("state = %v", m.Current())
	}
}

func TestCallbacksRunInOrder(t *testing.T) {
	ctx := context.Background()
	m := newLoader(t)

	var order []string
	m.OnExit(idle, func(ctx context.Context, from, to state, ev event) {
		order = append(order, "exit")
	})
	m.OnTransition(func(ctx context.Context, from, to state, ev event) {
		order = append(order, "transition")
		if from != idle || to != loading || ev != load {
			t.Errorf("transition callback args = %v %v %v", from, to, ev)
		}
	})
	m.OnEnter(loading, func(ctx context.Context, from, to state, ev event) {
		order = append(order, "enter")
	})

	if err := m.Fire(ctx, load); err != nil {
		t.Fatalf("fire: %v", err)
	}
	if len(order) != 3 || order[0] != "exit" || order[1] != "transition" || order[2] != "enter" {
		t.Fatalf("callback order = %v", order)
	}
}

func TestDuplicateTransitionRejected(t *testing.T) {
	_, err := New(idle, []Transition[state, event]{
		{From: idle, Event: load, To: loading},
		{From: idle, Event: load, To: failed},
	})
	if err == nil {
		t.Fatalf("duplicate transition accepted")
	}
}
