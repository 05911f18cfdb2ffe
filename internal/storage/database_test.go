package storage

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeforce/internal/calc"
	"github.com/lifeforce/internal/flow"
)

func testSession() *flow.Session {
	s := flow.NewSession(flow.DefaultInputState())
	s.State.Salary = "60000"
	s.State.TaxRate = "25"
	s.State.ItemName = "Headphones"
	s.State.ItemPrice = "300"
	s.State.Step = flow.StepResult
	s.Result = &calc.Result{ItemName: "Headphones", ItemPrice: 300, Mornings: 2}
	return s
}

func TestDatabase_SaveSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewWithDB(db)

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs("abc", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.SaveSession("abc", testSession())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_GetSession(t *testing.T) {
	tests := []struct {
		name          string
		rows          *sqlmock.Rows
		queryErr      error
		expectedNil   bool
		expectedError bool
	}{
		{
			name: "session found",
			rows: sqlmock.NewRows([]string{"data", "updated_at"}).
				AddRow(`{"state":{"mode":"hourly","hourly_rate":"25","step":2}}`, "2026-10-18T09:30:00"),
		},
		{
			name:        "unknown id",
			queryErr:    sql.ErrNoRows,
			expectedNil: true,
		},
		{
			name: "corrupt data",
			rows: sqlmock.NewRows([]string{"data", "updated_at"}).
				AddRow(`{"state":`, "2026-10-18T09:30:00"),
			expectedNil:   true,
			expectedError: true,
		},
		{
			name:          "driver error",
			queryErr:      errors.New("disk I/O error"),
			expectedNil:   true,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			store := NewWithDB(db)

			expect := mock.ExpectQuery("SELECT data, updated_at FROM sessions").WithArgs("abc")
			if tt.queryErr != nil {
				expect.WillReturnError(tt.queryErr)
			} else {
				expect.WillReturnRows(tt.rows)
			}

			snapshot, err := store.GetSession("abc")

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.expectedNil {
				assert.Nil(t, snapshot)
			} else {
				require.NotNil(t, snapshot)
				assert.Equal(t, "abc", snapshot.ID)
				assert.Equal(t, calc.ModeHourly, snapshot.Session.State.Mode)
				assert.Equal(t, flow.StepItem, snapshot.Session.Step())
				assert.Nil(t, snapshot.Session.Result)
				assert.Equal(t, 2026, snapshot.UpdatedAt.Year())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDatabase_GetPreferenceMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewWithDB(db)

	mock.ExpectQuery("SELECT value FROM preferences").
		WithArgs("theme").
		WillReturnError(sql.ErrNoRows)

	value, err := store.GetPreference("theme")

	assert.NoError(t, err)
	assert.Empty(t, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_InMemoryRoundTrip(t *testing.T) {
	store, err := New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	first := testSession()
	require.NoError(t, store.SaveSession("live", first))

	// saving again replaces the snapshot
	first.State.ItemPrice = "450"
	require.NoError(t, store.SaveSession("live", first))

	snapshot, err := store.GetSession("live")
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "450", snapshot.Session.State.ItemPrice)
	assert.Equal(t, flow.StepResult, snapshot.Session.Step())
	require.NotNil(t, snapshot.Session.Result)
	assert.Equal(t, 2, snapshot.Session.Result.Mornings)

	require.NoError(t, store.DeleteSession("live"))
	snapshot, err = store.GetSession("live")
	assert.NoError(t, err)
	assert.Nil(t, snapshot)

	require.NoError(t, store.SetPreference("theme", "dark"))
	require.NoError(t, store.SetPreference("theme", "light"))
	value, err := store.GetPreference("theme")
	require.NoError(t, err)
	assert.Equal(t, "light", value)
}
