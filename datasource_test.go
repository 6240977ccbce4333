package gotables

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testColumnMapping = ColumnMapping{
	"title":    "title",
	"released": "released_at",
	"rating":   "rating",
}

func mustParseCriterias(t *testing.T, values url.Values) *Criterias {
	t.Helper()

	c, err := ParseCriterias(values)
	require.NoError(t, err)

	return c
}

func Test_Criterias_ToSQL(t *testing.T) {
	tests := []struct {
		name       string
		values     url.Values
		mapping    ColumnMapping
		wantSQL    string
		wantValues []driver.Value
		wantErr    bool
	}{
		{
			name:    "global and range search",
			values:  testRequest(),
			mapping: testColumnMapping,
			wantSQL: "((title LIKE ? ESCAPE '!' OR released_at LIKE ? ESCAPE '!') AND (released_at >= ?) AND (released_at <= ?))",
			wantValues: []driver.Value{
				"%floyd%", "%floyd%", "1970", "1980",
			},
		},
		{
			name: "column search is escaped",
			values: url.Values{
				"columns[0][data]":          {"title"},
				"columns[0][search][value]": {"100%"},
			},
			mapping:    testColumnMapping,
			wantSQL:    "((title LIKE ? ESCAPE '!'))",
			wantValues: []driver.Value{`%100!%%`},
		},
		{
			name: "open range",
			values: url.Values{
				"columns[0][data]":          {"rating"},
				"columns[0][search][value]": {"~3"},
			},
			mapping:    testColumnMapping,
			wantSQL:    "((rating <= ?))",
			wantValues: []driver.Value{"3"},
		},
		{
			name:    "no search",
			values:  url.Values{"columns[0][data]": {"title"}},
			mapping: testColumnMapping,
			wantSQL: "TRUE",
		},
		{
			name: "global search skips unmapped columns",
			values: url.Values{
				"search[value]":          {"x"},
				"columns[0][data]":       {"title"},
				"columns[0][searchable]": {"true"},
				"columns[1][data]":       {"cover"},
				"columns[1][searchable]": {"true"},
			},
			mapping:    testColumnMapping,
			wantSQL:    "((title LIKE ? ESCAPE '!'))",
			wantValues: []driver.Value{"%x%"},
		},
		{
			name: "filtered unmapped column",
			values: url.Values{
				"columns[0][data]":          {"titel"},
				"columns[0][search][value]": {"wall"},
			},
			mapping: testColumnMapping,
			wantErr: true,
		},
		{
			name:    "forbidden column name",
			values:  testRequest(),
			mapping: ColumnMapping{"title": "title; DROP TABLE albums", "released": "released_at"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSQL, gotValues, err := mustParseCriterias(t, tt.values).ToSQL(tt.mapping)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCriterias)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, gotSQL)
			assert.Equal(t, tt.wantValues, gotValues)
		})
	}
}

func Test_Criterias_Apply(t *testing.T) {
	for _, newMock := range gormMocks() {
		dialect, db := dryRunDB(t, newMock)

		t.Run(dialect, func(t *testing.T) {
			query, err := mustParseCriterias(t, testRequest()).Apply(db.Table("albums"), testColumnMapping)
			require.NoError(t, err)

			sql := query.Find(&[]album{}).Statement.SQL.String()
			assert.Regexp(t, "^SELECT \\* FROM [`\"]albums[`\"] WHERE .*title LIKE .* OR released_at LIKE .*released_at >= .*released_at <= ", sql)
			assert.Regexp(t, "ORDER BY released_at DESC, title ASC LIMIT 10 OFFSET 20$", sql)
		})

		t.Run(dialect+" long page", func(t *testing.T) {
			query, err := mustParseCriterias(t, url.Values{
				"start":            {"200"},
				"length":           {"200"},
				"columns[0][data]": {"title"},
			}).Apply(db.Table("albums"), testColumnMapping)
			require.NoError(t, err)

			sql := query.Find(&[]album{}).Statement.SQL.String()
			assert.Regexp(t, "LIMIT 200 OFFSET 200$", sql)
		})

		t.Run(dialect+" wildcards in search", func(t *testing.T) {
			query, err := mustParseCriterias(t, url.Values{
				"search[value]":          {"snake_"},
				"columns[0][data]":       {"title"},
				"columns[0][searchable]": {"true"},
			}).Apply(db.Table("albums"), testColumnMapping)
			require.NoError(t, err)

			stmt := query.Find(&[]album{}).Statement
			assert.Regexp(t, `WHERE title LIKE (\?|\$1) ESCAPE '!'$`, stmt.SQL.String())
			assert.Equal(t, []any{"%snake!_%"}, stmt.Vars)
		})

		t.Run(dialect+" without paging", func(t *testing.T) {
			query, err := mustParseCriterias(t, url.Values{"columns[0][data]": {"title"}}).Apply(db.Table("albums"), testColumnMapping)
			require.NoError(t, err)

			sql := query.Find(&[]album{}).Statement.SQL.String()
			assert.Regexp(t, "^SELECT \\* FROM [`\"]albums[`\"]$", sql)
		})

		t.Run(dialect+" unknown sorted column", func(t *testing.T) {
			c := mustParseCriterias(t, url.Values{
				"columns[0][data]":      {"cover"},
				"columns[0][orderable]": {"true"},
				"order[0][column]":      {"0"},
			})

			_, err := c.Apply(db.Table("albums"), testColumnMapping)
			assert.ErrorIs(t, err, ErrInvalidCriterias)
		})
	}
}

func Test_Fetch(t *testing.T) {
	for _, newMock := range gormMocks() {
		dialect, db, dbMock, err := newMock()

		t.Run(fmt.Sprintf("%s search", dialect), func(t *testing.T) {
			require.NoError(t, err)

			dbMock.ExpectQuery("^SELECT count\\(\\*\\) FROM [`\"]albums[`\"]$").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(57))
			dbMock.ExpectQuery("^SELECT count\\(\\*\\) FROM [`\"]albums[`\"] WHERE .*title LIKE .*released_at <= ").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
			dbMock.ExpectQuery("^SELECT \\* FROM [`\"]albums[`\"] WHERE .* ORDER BY released_at DESC, title ASC LIMIT 10 OFFSET 20$").
				WillReturnRows(sqlmock.NewRows([]string{"title", "released", "rating"}).
					AddRow("The Wall", "30.11.1979", "+5").
					AddRow("Animals", "23.1.1977", "+3"))

			resp, err := Fetch[album](
				context.Background(),
				db.Table("albums"),
				mustParseCriterias(t, testRequest()),
				testColumnMapping,
				WithLogger(zaptest.NewLogger(t)),
			)
			require.NoError(t, err)

			assert.Equal(t, 3, resp.Draw)
			assert.EqualValues(t, 57, resp.RecordsTotal)
			assert.EqualValues(t, 21, resp.RecordsFiltered)
			assert.Equal(t, []album{
				{Title: "The Wall", Released: "30.11.1979", Rating: "+5"},
				{Title: "Animals", Released: "23.1.1977", Rating: "+3"},
			}, resp.Data)
			assert.NoError(t, dbMock.ExpectationsWereMet())
		})
	}
}

func Test_Fetch_WithoutSearch(t *testing.T) {
	for _, newMock := range gormMocks() {
		dialect, db, dbMock, err := newMock()

		t.Run(dialect, func(t *testing.T) {
			require.NoError(t, err)

			dbMock.ExpectQuery("^SELECT count\\(\\*\\) FROM [`\"]albums[`\"]$").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			dbMock.ExpectQuery("^SELECT \\* FROM [`\"]albums[`\"] LIMIT 25$").
				WillReturnRows(sqlmock.NewRows([]string{"title", "released", "rating"}))

			criterias := mustParseCriterias(t, url.Values{
				"draw":             {"1"},
				"start":            {"0"},
				"length":           {"25"},
				"columns[0][data]": {"title"},
			})

			resp, err := Fetch[album](context.Background(), db.Table("albums"), criterias, testColumnMapping)
			require.NoError(t, err)

			assert.Zero(t, resp.RecordsTotal)
			assert.Zero(t, resp.RecordsFiltered)
			assert.NotNil(t, resp.Data)
			assert.Empty(t, resp.Data)
			assert.Equal(t, PagingState{PageLength: 25}, PagingStateOf(criterias, resp))
			assert.NoError(t, dbMock.ExpectationsWereMet())
		})
	}
}

func Test_Fetch_WithMaxLength(t *testing.T) {
	for _, newMock := range gormMocks() {
		dialect, db, dbMock, err := newMock()

		t.Run(dialect, func(t *testing.T) {
			require.NoError(t, err)

			dbMock.ExpectQuery("^SELECT count\\(\\*\\) FROM [`\"]albums[`\"]$").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(500))
			dbMock.ExpectQuery("^SELECT \\* FROM [`\"]albums[`\"] LIMIT 50 OFFSET 100$").
				WillReturnRows(sqlmock.NewRows([]string{"title", "released", "rating"}))

			criterias := mustParseCriterias(t, url.Values{
				"start":            {"100"},
				"length":           {"200"},
				"columns[0][data]": {"title"},
			})
			_, err := Fetch[album](context.Background(), db.Table("albums"), criterias, testColumnMapping,
				WithLogger(zaptest.NewLogger(t)), WithMaxLength(50))
			require.NoError(t, err)
			assert.Equal(t, 200, criterias.Length, "request left untouched")

			dbMock.ExpectQuery("^SELECT count\\(\\*\\) FROM [`\"]albums[`\"]$").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(500))
			dbMock.ExpectQuery(fmt.Sprintf("^SELECT \\* FROM [`\"]albums[`\"] LIMIT %d$", MaxLimit)).
				WillReturnRows(sqlmock.NewRows([]string{"title", "released", "rating"}))

			_, err = Fetch[album](context.Background(), db.Table("albums"), mustParseCriterias(t, url.Values{
				"length":           {"-1"},
				"columns[0][data]": {"title"},
			}), testColumnMapping, WithMaxLength(0))
			require.NoError(t, err)

			assert.NoError(t, dbMock.ExpectationsWereMet())
		})
	}
}

func Test_Fetch_Errors(t *testing.T) {
	for _, newMock := range gormMocks() {
		dialect, db, dbMock, err := newMock()

		t.Run(dialect, func(t *testing.T) {
			require.NoError(t, err)

			_, err := Fetch[album](context.Background(), db.Table("albums"), nil, testColumnMapping)
			assert.ErrorIs(t, err, ErrInvalidCriterias)

			dbMock.ExpectQuery("^SELECT count").WillReturnError(errors.New("connection reset"))
			_, err = Fetch[album](context.Background(), db.Table("albums"), mustParseCriterias(t, testRequest()), testColumnMapping)
			assert.ErrorContains(t, err, "cannot count records")

			dbMock.ExpectQuery("^SELECT count").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
			_, err = Fetch[album](context.Background(), db.Table("albums"), mustParseCriterias(t, url.Values{
				"columns[0][data]":          {"genre"},
				"columns[0][search][value]": {"rock"},
			}), testColumnMapping)
			assert.ErrorIs(t, err, ErrInvalidCriterias)

			assert.NoError(t, dbMock.ExpectationsWereMet())
		})
	}
}

func Test_Response_JSON(t *testing.T) {
	raw, err := json.Marshal(Response[album]{Draw: 2, RecordsTotal: 10, RecordsFiltered: 4, Data: []album{}})
	require.NoError(t, err)

	assert.JSONEq(t, `{"draw":2,"recordsTotal":10,"recordsFiltered":4,"data":[]}`, string(raw))
}
