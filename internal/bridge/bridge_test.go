package bridge

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/arkiv-network/indexer/internal/domain"
	"github.com/arkiv-network/indexer/internal/repository"
)

func newMockRepo(t *testing.T) (*repository.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.New(db), mock
}

func topic(b byte) *domain.Hash32 {
	h := domain.Hash32{b}
	return &h
}

func TestHandleLog_UnrecognizedTopic(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)

	handled, err := HandleLog(context.Background(), tx, repo, domain.Log{FirstTopic: topic(0xFF)})
	require.NoError(t, err)
	require.False(t, handled)
}

func TestHandleLog_NilFirstTopic(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)

	handled, err := HandleLog(context.Background(), tx, repo, domain.Log{})
	require.NoError(t, err)
	require.False(t, handled)
}

func TestHandleLog_WithdrawalFinalized(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)

	withdrawalHash := domain.Hash32{0x22}
	logRow := domain.Log{
		TxHash:      domain.Hash32{0x01},
		BlockHash:   domain.Hash32{0x02},
		Index:       4,
		FirstTopic:  &domain.WithdrawalFinalizedTopic,
		SecondTopic: &withdrawalHash,
		Data:        encodeBool(true),
	}

	mock.ExpectExec("INSERT INTO withdrawal_finalized_events").
		WithArgs(logRow.TxHash.Bytes(), logRow.BlockHash.Bytes(), int64(4), int64(0), withdrawalHash.Bytes(), true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	handled, err := HandleLog(context.Background(), tx, repo, logRow)
	require.NoError(t, err)
	require.True(t, handled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleLog_WithdrawalFinalized_MissingTopic(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)

	logRow := domain.Log{FirstTopic: &domain.WithdrawalFinalizedTopic}

	handled, err := HandleLog(context.Background(), tx, repo, logRow)
	require.Error(t, err)
	require.True(t, handled)
}

func encodeBool(v bool) []byte {
	out := make([]byte, 32)
	if v {
		out[31] = 1
	}
	return out
}
