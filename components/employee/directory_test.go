package employee

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/playground/internal/metrics"
)

func TestSimulatedDirectory(t *testing.T) {
	d := &SimulatedDirectory{MaxDelay: 5 * time.Millisecond, UniqueEmail: DefaultUniqueEmail}

	ok, err := d.IsUnique(context.Background(), DefaultUniqueEmail)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.IsUnique(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSimulatedDirectory_DelayBounded(t *testing.T) {
	d := &SimulatedDirectory{MaxDelay: 20 * time.Millisecond, UniqueEmail: DefaultUniqueEmail}
	start := time.Now()
	_, err := d.IsUnique(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSimulatedDirectory_Cancelled(t *testing.T) {
	d := &SimulatedDirectory{MaxDelay: time.Hour, UniqueEmail: DefaultUniqueEmail}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.IsUnique(ctx, DefaultUniqueEmail)
	assert.ErrorIs(t, err, context.Canceled)
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "mysql"), mock
}

func TestSQLDirectory(t *testing.T) {
	db, mock := newMockDB(t)
	d := NewSQLDirectory(db)
	q := regexp.QuoteMeta(queryCountByEmail)

	mock.ExpectQuery(q).WithArgs("new@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(0))
	mock.ExpectQuery(q).WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))
	mock.ExpectQuery(q).WithArgs("down@example.com").
		WillReturnError(errors.New("connection refused"))

	ok, err := d.IsUnique(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.IsUnique(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = d.IsUnique(context.Background(), "down@example.com")
	assert.ErrorContains(t, err, "connection refused")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDirectory_CallerCancelDoesNotFailOthers(t *testing.T) {
	db, mock := newMockDB(t)
	d := NewSQLDirectory(db)

	mock.ExpectQuery(regexp.QuoteMeta(queryCountByEmail)).WithArgs("new@example.com").
		WillDelayFor(200 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(0))

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := d.IsUnique(firstCtx, "new@example.com")
		firstErr <- err
	}()

	time.Sleep(20 * time.Millisecond)
	second := make(chan bool, 1)
	secondErr := make(chan error, 1)
	go func() {
		ok, err := d.IsUnique(context.Background(), "new@example.com")
		second <- ok
		secondErr <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancelFirst()

	assert.ErrorIs(t, <-firstErr, context.Canceled)
	assert.True(t, <-second)
	assert.NoError(t, <-secondErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type stubDirectory struct {
	unique bool
	err    error
}

func (s stubDirectory) Name() string { return "stub" }
func (s stubDirectory) IsUnique(context.Context, string) (bool, error) {
	return s.unique, s.err
}

func TestInstrument_CountsResults(t *testing.T) {
	unique := metrics.UniquenessChecksTotal.WithLabelValues("stub", "unique")
	taken := metrics.UniquenessChecksTotal.WithLabelValues("stub", "taken")
	failed := metrics.UniquenessChecksTotal.WithLabelValues("stub", "error")
	u0, t0, f0 := testutil.ToFloat64(unique), testutil.ToFloat64(taken), testutil.ToFloat64(failed)

	ctx := context.Background()
	_, _ = Instrument(stubDirectory{unique: true})(ctx, "a@b.co")
	_, _ = Instrument(stubDirectory{})(ctx, "a@b.co")
	_, err := Instrument(stubDirectory{err: errors.New("x")})(ctx, "a@b.co")
	assert.Error(t, err)

	assert.Equal(t, u0+1, testutil.ToFloat64(unique))
	assert.Equal(t, t0+1, testutil.ToFloat64(taken))
	assert.Equal(t, f0+1, testutil.ToFloat64(failed))
}
