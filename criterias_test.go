package gotables

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() url.Values {
	return url.Values{
		"draw":                      {"3"},
		"start":                     {"20"},
		"length":                    {"10"},
		"search[value]":             {"floyd"},
		"columns[0][data]":          {"title"},
		"columns[0][searchable]":    {"true"},
		"columns[0][orderable]":     {"true"},
		"columns[0][search][value]": {""},
		"columns[1][data]":          {"released"},
		"columns[1][searchable]":    {"true"},
		"columns[1][orderable]":     {"true"},
		"columns[1][search][value]": {"1970~1980"},
		"columns[2][data]":          {"rating"},
		"columns[2][searchable]":    {"false"},
		"columns[2][orderable]":     {"true"},
		"columns[2][search][regex]": {"true"},
		"order[0][column]":          {"1"},
		"order[0][dir]":             {"desc"},
		"order[1][column]":          {"0"},
		"order[1][dir]":             {"asc"},
	}
}

func Test_ParseCriterias(t *testing.T) {
	c, err := ParseCriterias(testRequest())
	require.NoError(t, err)

	assert.Equal(t, 3, c.Draw)
	assert.Equal(t, 20, c.Start)
	assert.Equal(t, 10, c.Length)
	assert.Equal(t, "floyd", c.Search)

	assert.Equal(t, []ColumnDef{
		{Name: "title", Searchable: true, Orderable: true},
		{Name: "released", Searchable: true, Orderable: true, Filtered: true, SearchFrom: "1970", SearchTo: "1980"},
		{Name: "rating", Orderable: true, Regex: true},
	}, c.Columns)

	assert.Equal(t, []SortedColumn{
		{Index: 1, Direction: DirectionDESC},
		{Index: 0, Direction: DirectionASC},
	}, c.Sorting)

	assert.True(t, c.HasOneFilterableColumn())
	assert.True(t, c.HasOneFilteredColumn())
	assert.True(t, c.HasOneSortedColumn())
	assert.True(t, c.IsSearching())
	assert.Equal(t, 10, c.Limit())
	assert.Equal(t, 20, c.Offset())
}

func Test_ParseCriterias_Defaults(t *testing.T) {
	c, err := ParseCriterias(url.Values{"columns[0][data]": {"title"}})
	require.NoError(t, err)

	assert.Equal(t, -1, c.Draw)
	assert.Equal(t, -1, c.Start)
	assert.Equal(t, -1, c.Length)
	assert.Len(t, c.Columns, 1, "a single column is counted")
	assert.Empty(t, c.Sorting)
	assert.False(t, c.IsSearching())
	assert.Equal(t, NoLimit, c.Limit())
	assert.Equal(t, 0, c.Offset())

	c, err = ParseCriterias(url.Values{
		"columns[0][data]": {"title"},
		"order[0][column]": {"0"},
	})
	require.NoError(t, err)
	assert.Equal(t, []SortedColumn{{Index: 0, Direction: DirectionASC}}, c.Sorting)

	c, err = ParseCriterias(url.Values{})
	require.NoError(t, err)
	assert.Empty(t, c.Columns)
}

func Test_ParseCriterias_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{"nil values", nil},
		{"bad draw", url.Values{"draw": {"x"}}},
		{"bad start", url.Values{"start": {"1.5"}}},
		{"bad length", url.Values{"length": {"ten"}}},
		{"zero length", url.Values{"length": {"0"}}},
		{"negative length", url.Values{"length": {"-5"}}},
		{"order column out of range", url.Values{"columns[0][data]": {"a"}, "order[0][column]": {"1"}}},
		{"order column not a number", url.Values{"columns[0][data]": {"a"}, "order[0][column]": {"a"}}},
		{"bad direction", url.Values{"columns[0][data]": {"a"}, "order[0][column]": {"0"}, "order[0][dir]": {"up"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCriterias(tt.values)
			assert.ErrorIs(t, err, ErrInvalidCriterias)
		})
	}
}

func Test_ColumnDef_setSearch(t *testing.T) {
	tests := []struct {
		term string
		want ColumnDef
	}{
		{"", ColumnDef{}},
		{"   ", ColumnDef{}},
		{"wall", ColumnDef{Filtered: true, Search: "wall"}},
		{"~", ColumnDef{Filtered: true}},
		{"3~", ColumnDef{Filtered: true, SearchFrom: "3"}},
		{"~5", ColumnDef{Filtered: true, SearchTo: "5"}},
		{"3~5", ColumnDef{Filtered: true, SearchFrom: "3", SearchTo: "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			var got ColumnDef
			got.setSearch(tt.term)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_Criterias_Orderings(t *testing.T) {
	c, err := ParseCriterias(testRequest())
	require.NoError(t, err)

	orderings, err := c.Orderings(ColumnMapping{"title": "albums.title", "released": "albums.released_at"})
	require.NoError(t, err)
	assert.Equal(t, "albums.released_at DESC, albums.title ASC", orderings.ToSQL())

	_, err = c.Orderings(ColumnMapping{"title": "albums.title", "release": "albums.released_at"})
	require.ErrorIs(t, err, ErrInvalidCriterias)
	assert.Contains(t, err.Error(), "closest: 'release'")

	values := testRequest()
	values.Set("columns[0][orderable]", "false")
	c, err = ParseCriterias(values)
	require.NoError(t, err)

	_, err = c.Orderings(ColumnMapping{"title": "albums.title", "released": "albums.released_at"})
	require.ErrorIs(t, err, ErrInvalidCriterias)
	assert.Contains(t, err.Error(), "column 'title' is not orderable")
}
