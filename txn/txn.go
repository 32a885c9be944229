// Package txn groups operations into an all-or-nothing unit with
// rollback in reverse order.
package txn

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	ErrDone = errors.New("txn: transaction already finished")
)

// Op is a single step of a transaction. Rollback may be nil for steps
// that have nothing to revert.
type Op struct {
	Name     string
	Apply    func(ctx context.Context) error
	Rollback func(ctx context.Context) error
}

// Tx accumulates applied operations until Commit or Rollback.
type Tx struct {
	applied []Op
	done    bool
}

// Begin starts a transaction.
func Begin() *Tx {
	return &Tx{}
}

// Exec applies op. On failure the op is not recorded and the error is
// returned; previously applied ops stay pending until Rollback.
func (tx *Tx) Exec(ctx context.Context, op Op) error {
	if tx.done {
		return ErrDone
	}
	if op.Apply == nil {
		return nil
	}
	if err := op.Apply(ctx); err != nil {
		if op.Name != "" {
			return fmt.Errorf("txn: %s: %w", op.Name, err)
		}
		return err
	}
	tx.applied = append(tx.applied, op)
	return nil
}

// Commit finishes the transaction, keeping all applied operations.
func (tx *Tx) Commit() error {
	if tx.done {
		return ErrDone
	}
	tx.done = true
	tx.applied = nil
	return nil
}

// Rollback reverts applied operations in reverse order. All rollbacks
// run even when some fail; their errors are aggregated.
func (tx *Tx) Rollback(ctx context.Context) error {
	if tx.done {
		return ErrDone
	}
	tx.done = true
	var errs error
	for i := len(tx.applied) - 1; i >= 0; i-- {
		op := tx.applied[i]
		if op.Rollback == nil {
			continue
		}
		if err := op.Rollback(ctx); err != nil {
			if op.Name != "" {
				err = fmt.Errorf("txn: rollback %s: %w", op.Name, err)
			}
			errs = multierr.Append(errs, err)
		}
	}
	tx.applied = nil
	return errs
}

// RunInTx runs fn inside a fresh transaction. A nil return commits;
// an error or panic rolls back before the error propagates.
func RunInTx(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) (err error) {
	tx := Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()
	if err = fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, ErrDone) {
			err = multierr.Append(err, rbErr)
		}
		return err
	}
	if tx.done {
		return nil
	}
	return tx.Commit()
}
