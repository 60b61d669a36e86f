package services

import (
	"context"

	"github.com/upb/rol-control-plane/repositories"
)

// WithTransactionResult runs fn within a database transaction and returns its value.
// Repositories called with the ctx handed to fn run on that transaction;
// it commits when fn returns nil and rolls back otherwise.
// The zero value is returned whenever the transaction fails.
func WithTransactionResult[T any](ctx context.Context, txMgr repositories.TransactionManager, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := txMgr.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		value, err := fn(txCtx)
		if err != nil {
			return err
		}
		result = value
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
