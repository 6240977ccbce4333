package gotables

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "mysql", db.Debug(), mock, nil
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := postgres.New(postgres.Config{
		Conn: mockDB,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "postgres", db.Debug(), mock, nil
}

// gormMocks returns a constructor per supported dialect.
func gormMocks() []func() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	return []func() (string, *gorm.DB, sqlmock.Sqlmock, error){
		newGORMMySQLMock,
		newGORMPostgresMock,
	}
}

// dryRunDB returns a session rendering SQL without executing it.
func dryRunDB(t *testing.T, newMock func() (string, *gorm.DB, sqlmock.Sqlmock, error)) (string, *gorm.DB) {
	t.Helper()

	dialect, db, _, err := newMock()
	require.NoError(t, err)

	return dialect, db.Session(&gorm.Session{DryRun: true})
}

func mustTag(t *testing.T, s string) language.Tag {
	t.Helper()

	tag, err := language.Parse(s)
	require.NoError(t, err)

	return tag
}
