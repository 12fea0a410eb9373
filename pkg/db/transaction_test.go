package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/postwing/postwing/pkg/db"
)

type fakeTx struct {
	pgx.Tx

	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{}
	var got pgx.Tx
	err := db.WithTx(context.Background(), &fakeBeginner{tx: tx}, func(tx pgx.Tx) error {
		got = tx
		return nil
	})

	require.NoError(t, err)
	require.Same(t, tx, got)
	require.True(t, tx.committed)
	require.False(t, tx.rolledBack)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("insert failed")
	tx := &fakeTx{}
	err := db.WithTx(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error {
		return boom
	})

	require.ErrorIs(t, err, boom)
	require.True(t, tx.rolledBack)
	require.False(t, tx.committed)
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{}
	require.PanicsWithValue(t, "worker gone", func() {
		_ = db.WithTx(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error {
			panic("worker gone")
		})
	})

	require.True(t, tx.rolledBack)
	require.False(t, tx.committed)
}

func TestWithTx_BeginFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("pool closed")
	called := false
	err := db.WithTx(context.Background(), &fakeBeginner{err: boom}, func(pgx.Tx) error {
		called = true
		return nil
	})

	require.ErrorIs(t, err, boom)
	require.False(t, called)
}
