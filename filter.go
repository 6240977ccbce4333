package gotables

import (
	"slices"

	"github.com/samber/lo"
)

// FilterHost exposes the search state of the host table.
type FilterHost interface {
	ColumnCount() int
	// ColumnName returns the declared name of the i-th column.
	ColumnName(i int) string
	SetColumnSearch(i int, term string)
	SetGlobalSearch(term string)
	Redraw()
}

// SearchInputClearer is implemented by hosts rendering global search inputs
// which have to be emptied together with the search terms.
type SearchInputClearer interface {
	ClearSearchInputs()
}

// ApplyMultiFilter sets the search term of every column named in request and
// redraws the table once. Each name is matched against the first column
// declaring it; unknown names are ignored. Returns the number of applied
// terms.
func ApplyMultiFilter(host FilterHost, request map[string]string) int {
	if host == nil {
		return 0
	}

	names := lo.Keys(request)
	slices.Sort(names)

	applied := 0
	for _, name := range names {
		for i := 0; i < host.ColumnCount(); i++ {
			if host.ColumnName(i) == name {
				host.SetColumnSearch(i, request[name])
				applied++
				break
			}
		}
	}

	host.Redraw()

	return applied
}

// ClearFilters empties the global and every column search term, then redraws
// the table once.
func ClearFilters(host FilterHost) {
	if host == nil {
		return
	}

	host.SetGlobalSearch("")
	if clearer, ok := host.(SearchInputClearer); ok {
		clearer.ClearSearchInputs()
	}

	for i := 0; i < host.ColumnCount(); i++ {
		host.SetColumnSearch(i, "")
	}

	host.Redraw()
}
