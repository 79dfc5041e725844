package state

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagecraft-labs/pipemenu/internal/testutil"
)

// These tests drive the store against a mocked connection to exercise the
// database error paths that a real SQLite file never produces.

func TestStore_RecordInvocationExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO invocations").
		WillReturnError(fmt.Errorf("disk I/O error"))

	s := &Store{db: db, logger: testutil.DiscardLogger()}
	err = s.RecordInvocation("pipeline", "Apps/Loader", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record invocation")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RecentSwitchesQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, from_ctx, to_ctx").
		WillReturnError(fmt.Errorf("database is locked"))

	s := &Store{db: db, logger: testutil.DiscardLogger()}
	_, err = s.RecentSwitches(5)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query switches")
	assert.NoError(t, mock.ExpectationsWereMet())
}
