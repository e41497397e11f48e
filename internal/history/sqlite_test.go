package history

import (
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummary() *domain.ScenarioSummary {
	params := domain.Parameters{
		Principal:             10000,
		Rate:                  domain.RateSpec{Mode: domain.RateModeFixed, AnnualRatePercent: 6},
		CompoundsPerYear:      12,
		ContributionAmount:    1000,
		ContributionPeriod:    domain.PeriodMonthly,
		AccumulationYears:     1,
		WithdrawalRatePercent: 4,
	}
	return &domain.ScenarioSummary{
		Name:              "Base",
		Parameters:        params,
		Seed:              7,
		FutureValue:       decimal.RequireFromString("22952.34"),
		TotalContribution: decimal.RequireFromString("22000"),
		TotalWithdrawn:    decimal.RequireFromString("51000.12"),
		FinalBalance:      decimal.RequireFromString("31000.5"),
	}
}

func newMockRecorder(t *testing.T) (*SQLiteRecorder, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS runs")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(index)).WillReturnResult(sqlmock.NewResult(0, 0))

	r, err := newRecorder(db, zerolog.New(zerolog.NewTestWriter(t)))
	require.NoError(t, err)
	return r, mock
}

func TestRecordRun(t *testing.T) {
	r, mock := newMockRecorder(t)
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	r.now = func() time.Time { return at }

	mock.ExpectExec(regexp.QuoteMeta(insertRun)).
		WithArgs(sqlmock.AnyArg(), at.Unix(), "Base", sqlmock.AnyArg(), int64(7),
			"22952.34", "22000", "51000.12", "31000.5").
		WillReturnResult(sqlmock.NewResult(1, 1))

	run, err := r.RecordRun(testSummary())
	require.NoError(t, err)

	assert.Len(t, run.ID, 36)
	assert.Equal(t, at, run.RecordedAt)
	assert.Equal(t, "Base", run.Scenario)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRecordRunInsertError(t *testing.T) {
	r, mock := newMockRecorder(t)

	mock.ExpectExec(regexp.QuoteMeta(insertRun)).WillReturnError(errors.New("disk full"))

	_, err := r.RecordRun(testSummary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert run: disk full")
}

func TestListRuns(t *testing.T) {
	r, mock := newMockRecorder(t)

	params, err := encodeParameters(testSummary().Parameters)
	require.NoError(t, err)

	cols := []string{"id", "recorded_at", "scenario", "parameters", "seed",
		"future_value", "total_contribution", "total_withdrawn", "final_balance"}
	rows := sqlmock.NewRows(cols).
		AddRow("b", int64(1740821400), "Aggressive", params, int64(3), "30000.1", "22000", "0", "30000.1").
		AddRow("a", int64(1740735000), "Base", params, int64(7), "22952.34", "22000", "51000.12", "31000.5")

	mock.ExpectQuery(regexp.QuoteMeta(selectRuns)).WithArgs(DefaultListLimit).WillReturnRows(rows)

	runs, err := r.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "Aggressive", runs[0].Scenario)
	assert.Equal(t, "30000.1", runs[0].FutureValue.String())
	assert.Equal(t, int64(7), runs[1].Seed)
	assert.Equal(t, 6.0, runs[1].Parameters.Rate.AnnualRatePercent)
	assert.Equal(t, domain.PeriodMonthly, runs[1].Parameters.ContributionPeriod)
	assert.Equal(t, time.Unix(1740735000, 0).UTC(), runs[1].RecordedAt)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestListRunsBadAmount(t *testing.T) {
	r, mock := newMockRecorder(t)

	cols := []string{"id", "recorded_at", "scenario", "parameters", "seed",
		"future_value", "total_contribution", "total_withdrawn", "final_balance"}
	rows := sqlmock.NewRows(cols).AddRow("x", int64(1), "Base", "{}", int64(0), "n/a", "0", "0", "0")
	mock.ExpectQuery(regexp.QuoteMeta(selectRuns)).WithArgs(5).WillReturnRows(rows)

	_, err := r.ListRuns(5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "future_value")
}

func TestMigrationError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS runs")).WillReturnError(errors.New("read-only"))

	_, err = newRecorder(db, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate")
}

func TestSQLiteRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	r, err := NewSQLiteRecorder(path, zerolog.Nop())
	require.NoError(t, err)
	defer r.Close()

	first, err := r.RecordRun(testSummary())
	require.NoError(t, err)

	later := testSummary()
	later.Name = "Aggressive"
	r.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = r.RecordRun(later)
	require.NoError(t, err)

	runs, err := r.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "Aggressive", runs[0].Scenario)
	assert.Equal(t, first.ID, runs[1].ID)
	assert.True(t, runs[1].FutureValue.Equal(decimal.RequireFromString("22952.34")))
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	run, err := r.RecordRun(testSummary())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)

	runs, err := r.ListRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, r.Close())
}
