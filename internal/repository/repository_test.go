package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/arkiv-network/indexer/internal/domain"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestStreamPendingTxHashes(t *testing.T) {
	repo, mock := newMockRepo(t)

	txHash := domain.Hash32{0x01}
	rows := sqlmock.NewRows([]string{"tx_hash", "block_number", "tx_index"}).
		AddRow(txHash.Bytes(), int64(10), int64(0))
	mock.ExpectQuery("SELECT tx_hash, block_number, index AS tx_index FROM pending_tx_operations").
		WillReturnRows(rows)

	out, err := repo.StreamPendingTxHashes(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, txHash, out[0].TxHash)
	require.Equal(t, domain.BlockNumber(10), out[0].BlockNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFinishTxProcessing(t *testing.T) {
	repo, mock := newMockRepo(t)
	txHash := domain.Hash32{0x02}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM pending_tx_operations WHERE tx_hash = \\$1").
		WithArgs(txHash.Bytes()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.FinishTxProcessing(context.Background(), tx, txHash))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTx_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	txHash := domain.Hash32{0x03}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM transactions WHERE hash = \\$1").
		WithArgs(txHash.Bytes()).
		WillReturnRows(sqlmock.NewRows(nil))
	mock.ExpectRollback()

	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)
	_, err = repo.GetTx(context.Background(), tx, txHash)
	require.Error(t, err)
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchQueueReindex_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.BatchQueueReindex(context.Background(), tx, nil))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}
