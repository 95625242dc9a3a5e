package services

import (
	"context"

	"github.com/Ritu-90/c25077715-cmt120-cw2/repositories"
)

// WithTransaction runs fn inside a transaction owned by txMgr.
// Repositories called with the ctx passed to fn join the transaction.
// Domain errors are returned unchanged; anything else is wrapped as internal.
func WithTransaction(ctx context.Context, txMgr repositories.TransactionManager, fn func(ctx context.Context) error) error {
	err := txMgr.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		return fn(txCtx)
	})
	if err == nil {
		return nil
	}
	if GetErrorType(err) != "" {
		return err
	}
	return WrapInternal("transaction failed", err)
}

// WithTransactionResult is WithTransaction for functions that produce a value.
func WithTransactionResult[T any](ctx context.Context, txMgr repositories.TransactionManager, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := WithTransaction(ctx, txMgr, func(txCtx context.Context) error {
		var err error
		result, err = fn(txCtx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
