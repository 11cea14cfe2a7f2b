package repositories

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		raw.Close()
	})
	return sqlx.NewDb(raw, "postgres"), mock
}

// sqlPattern matches the given fragments in order, across line breaks.
func sqlPattern(fragments ...string) string {
	pattern := "(?s)"
	for i, f := range fragments {
		if i > 0 {
			pattern += ".*"
		}
		pattern += regexp.QuoteMeta(f)
	}
	return pattern
}
