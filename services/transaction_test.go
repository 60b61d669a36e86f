package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWithTransactionResult(t *testing.T) {
	t.Run("commits and passes the transaction context", func(t *testing.T) {
		txMgr := new(MockTransactionManager)
		txMgr.On("InTransaction", mock.Anything).Return(nil)

		got, err := WithTransactionResult(context.Background(), txMgr, func(ctx context.Context) (string, error) {
			assert.True(t, inTx(ctx))
			return "registered", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "registered", got)
		assert.True(t, txMgr.committed)
		assert.False(t, txMgr.rolledBack)
	})

	t.Run("rolls back and returns the zero value on failure", func(t *testing.T) {
		txMgr := new(MockTransactionManager)
		txMgr.On("InTransaction", mock.Anything).Return(nil)
		failure := errors.New("operation failed")

		got, err := WithTransactionResult(context.Background(), txMgr, func(context.Context) (*int, error) {
			n := 1
			return &n, failure
		})

		assert.ErrorIs(t, err, failure)
		assert.Nil(t, got)
		assert.True(t, txMgr.rolledBack)
		assert.False(t, txMgr.committed)
	})

	t.Run("begin failure skips fn", func(t *testing.T) {
		txMgr := new(MockTransactionManager)
		txMgr.On("InTransaction", mock.Anything).Return(errors.New("no connection"))

		called := false
		_, err := WithTransactionResult(context.Background(), txMgr, func(context.Context) (int, error) {
			called = true
			return 1, nil
		})

		assert.Error(t, err)
		assert.False(t, called)
	})
}
