package events

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencesNextPerPartition(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	upsert := regexp.QuoteMeta(`INSERT INTO event_sequences (partition_key, last_sequence, updated_at)`)
	mock.ExpectQuery(upsert).WithArgs("user-7").
		WillReturnRows(sqlmock.NewRows([]string{"last_sequence"}).AddRow(int64(1)))
	mock.ExpectQuery(upsert).WithArgs("user-7").
		WillReturnRows(sqlmock.NewRows([]string{"last_sequence"}).AddRow(int64(2)))
	mock.ExpectQuery(upsert).WithArgs("guest-cs_test_1").
		WillReturnRows(sqlmock.NewRows([]string{"last_sequence"}).AddRow(int64(1)))

	seqs := NewSequences(db)
	ctx := context.Background()

	first, err := seqs.NextSequence(ctx, "user-7")
	require.NoError(t, err)
	second, err := seqs.NextSequence(ctx, "user-7")
	require.NoError(t, err)
	guest, err := seqs.NextSequence(ctx, " guest-cs_test_1 ")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(1), guest)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSequencesRejectsEmptyKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSequences(db).NextSequence(context.Background(), "  ")
	require.ErrorIs(t, err, errEmptyPartitionKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSequencesWrapsQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO event_sequences`)).
		WithArgs("user-7").
		WillReturnError(boom)

	_, err = NewSequences(db).NextSequence(context.Background(), "user-7")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "user-7")
	require.NoError(t, mock.ExpectationsWereMet())
}
