package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"suggestion-tracker/internal/logger"
)

// WithTransaction runs fn inside a store transaction on a fresh session.
//
// fn receives a context bound to the session; every collection call made with
// it joins the transaction. The transaction commits only when fn returns nil.
// Any other exit, including a panic or a failed commit, aborts it, and the
// session is always ended. Errors are wrapped in ErrTransactionAborted and are
// never retried here.
func WithTransaction(ctx context.Context, gw Gateway, fn func(txCtx context.Context) error) error {
	log := logger.WithComponent("transaction").WithField("tx_id", uuid.NewString())

	sess, err := gw.StartSession(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionAborted, err)
	}
	// Cleanup must run even when the caller's context is already cancelled.
	cleanupCtx := context.WithoutCancel(ctx)
	defer sess.EndSession(cleanupCtx)

	if err := sess.StartTransaction(); err != nil {
		return fmt.Errorf("%w: failed to start transaction: %w", ErrTransactionAborted, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if abortErr := sess.AbortTransaction(cleanupCtx); abortErr != nil {
			log.WithError(abortErr).Debug("Abort after failed transaction returned an error")
			return
		}
		log.Debug("Transaction aborted")
	}()

	txCtx := sess.Bind(ctx)
	if err := fn(txCtx); err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionAborted, err)
	}
	if err := sess.CommitTransaction(txCtx); err != nil {
		return fmt.Errorf("%w: commit failed: %w", ErrTransactionAborted, err)
	}
	committed = true
	log.Debug("Transaction committed")
	return nil
}
