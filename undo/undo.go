// Package undo is a bounded undo/redo command stack.
package undo

import (
	"errors"
	"sync"
)

var (
	ErrNothingToUndo = errors.New("undo: nothing to undo")
	ErrNothingToRedo = errors.New("undo: nothing to redo")
)

// Command is a reversible operation.
type Command interface {
	Do() error
	Undo() error
}

// Func adapts a pair of closures into a Command.
type Func struct {
	Apply  func() error
	Revert func() error
}

func (f Func) Do() error {
	if f.Apply == nil {
		return nil
	}
	return f.Apply()
}

func (f Func) Undo() error {
	if f.Revert == nil {
		return nil
	}
	return f.Revert()
}

const defaultCapacity = 100

// Manager executes commands and tracks them for undo/redo.
type Manager struct {
	mu       sync.Mutex
	capacity int
	past     []Command
	future   []Command
}

type Option func(*Manager)

// WithCapacity bounds the undo history; the oldest entries are dropped
// (default 100, values below 1 are ignored).
func WithCapacity(n int) Option {
	return func(m *Manager) {
		if n >= 1 {
			m.capacity = n
		}
	}
}

// NewManager builds a Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{capacity: defaultCapacity}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Execute runs cmd. On success it is pushed onto the undo stack and the
// redo stack is cleared; on failure nothing is recorded.
func (m *Manager) Execute(cmd Command) error {
	if err := cmd.Do(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.past = append(m.past, cmd)
	if len(m.past) > m.capacity {
		m.past = m.past[1:]
	}
	m.future = nil
	return nil
}

// Undo reverts the most recent command and moves it to the redo stack.
func (m *Manager) Undo() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.past) == 0 {
		return ErrNothingToUndo
	}
	cmd := m.past[len(m.past)-1]
	if err := cmd.Undo(); err != nil {
		return err
	}
	m.past = m.past[:len(m.past)-1]
	m.future = append(m.future, cmd)
	return nil
}

// Redo re-applies the most recently undone command.
func (m *Manager) Redo() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.future) == 0 {
		return ErrNothingToRedo
	}
	cmd := m.future[len(m.future)-1]
	if err := cmd.Do(); err != nil {
		return err
	}
	m.future = m.future[:len(m.future)-1]
	m.past = append(m.past, cmd)
	return nil
}

func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.past) > 0
}

func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.future) > 0
}

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.past = nil
	m.future = nil
}
