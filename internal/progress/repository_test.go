package progress

import (
	"context"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupProgressMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

// Column lists in queries must track the migration schema; sqlmock rows
// echo whatever the repository names, so a drifted column only surfaces
// against a real database.
func TestProgressColumnsMatchMigration(t *testing.T) {
	ddl, err := os.ReadFile("../../migrations/0001_init.up.sql")
	require.NoError(t, err)

	start := strings.Index(string(ddl), "CREATE TABLE lesson_progress")
	require.GreaterOrEqual(t, start, 0)
	table := string(ddl)[start:]
	table = table[:strings.Index(table, ");")]

	for _, col := range strings.Split(progressColumns, ",") {
		require.Contains(t, table, strings.TrimSpace(col))
	}
}

func TestUpsert(t *testing.T) {
	repo, mock, close := setupProgressMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (user_id, lesson_id) DO UPDATE`)).
		WithArgs(1, 7, true, 300).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "lesson_id", "completed", "watched_seconds", "last_watched_at",
		}).AddRow(1, 1, 7, true, 300, now))

	progress, err := repo.Upsert(context.Background(), 1, 7, true, 300)
	require.NoError(t, err)
	require.True(t, progress.Completed)
	require.Equal(t, 300, progress.WatchedSeconds)
}

func TestCountCompletedByCourse(t *testing.T) {
	repo, mock, close := setupProgressMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`JOIN lessons l ON l.id = lp.lesson_id`)).
		WithArgs(1, 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountCompletedByCourse(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestListByCourse(t *testing.T) {
	repo, mock, close := setupProgressMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT lp.lesson_id, lp.completed, lp.watched_seconds`)).
		WithArgs(1, 3).
		WillReturnRows(sqlmock.NewRows([]string{"lesson_id", "completed", "watched_seconds"}).
			AddRow(7, true, 300).
			AddRow(8, false, 40))

	views, err := repo.ListByCourse(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.True(t, views[0].Completed)
	require.Equal(t, 8, views[1].LessonID)
}
