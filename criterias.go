package gotables

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var ErrInvalidCriterias = errors.New("invalid table criterias")

// Request parameters sent by the widget when server-side processing is
// enabled.
const (
	paramDraw   = "draw"
	paramStart  = "start"
	paramLength = "length"
	paramSearch = "search[value]"

	rangeSeparator = "~"
)

var _columnParamPattern = regexp.MustCompile(`columns\[([0-9]+)\]`)

// ColumnDef is a column as described by a server-side processing request.
type ColumnDef struct {
	// Name is the data property of the column.
	Name       string
	Searchable bool
	Orderable  bool
	Regex      bool
	// Filtered is true if the column carries a search term, including ranges.
	Filtered bool
	// Search is the plain search term.
	Search string
	// SearchFrom and SearchTo are the bounds of a range search "from~to".
	// Either may be empty.
	SearchFrom string
	SearchTo   string
}

// SortedColumn references a column of Criterias.Columns being ordered.
type SortedColumn struct {
	Index     int
	Direction Direction
}

// Criterias wraps the parameters of a server-side processing request.
type Criterias struct {
	// Draw is echoed back in the response. -1 if absent.
	Draw int
	// Start is the index of the first requested record. -1 if absent.
	Start int
	// Length is the number of requested records. NoLimit requests every
	// record, -1 is also used when absent.
	Length int
	// Search is the global search term.
	Search  string
	Columns []ColumnDef
	Sorting []SortedColumn
}

// ParseCriterias maps request parameters into Criterias.
//
// Column searches of the form "from~to", "from~" and "~to" are range
// searches; "~" alone is an empty search.
func ParseCriterias(values url.Values) (*Criterias, error) {
	if values == nil {
		return nil, fmt.Errorf("%w: no parameters", ErrInvalidCriterias)
	}

	var (
		c   = &Criterias{Search: values.Get(paramSearch)}
		err error
	)

	if c.Draw, err = intParam(values, paramDraw); err != nil {
		return nil, err
	}
	if c.Start, err = intParam(values, paramStart); err != nil {
		return nil, err
	}
	if c.Length, err = intParam(values, paramLength); err != nil {
		return nil, err
	}
	if c.Length == 0 || c.Length < NoLimit {
		return nil, fmt.Errorf("%w: %s=%d", ErrInvalidCriterias, paramLength, c.Length)
	}

	columnNumber := columnCount(values)
	c.Columns = make([]ColumnDef, 0, columnNumber)
	for i := 0; i < columnNumber; i++ {
		prefix := fmt.Sprintf("columns[%d]", i)

		column := ColumnDef{
			Name:       values.Get(prefix + "[data]"),
			Searchable: boolParam(values, prefix+"[searchable]"),
			Orderable:  boolParam(values, prefix+"[orderable]"),
			Regex:      boolParam(values, prefix+"[search][regex]"),
		}
		column.setSearch(values.Get(prefix + "[search][value]"))

		c.Columns = append(c.Columns, column)
	}

	for i := 0; i < columnNumber; i++ {
		prefix := fmt.Sprintf("order[%d]", i)

		rawColumn := values.Get(prefix + "[column]")
		if strings.TrimSpace(rawColumn) == "" {
			continue
		}

		index, err := strconv.Atoi(strings.TrimSpace(rawColumn))
		if err != nil || index < 0 || index >= columnNumber {
			return nil, fmt.Errorf("%w: %s[column]='%s'", ErrInvalidCriterias, prefix, rawColumn)
		}

		direction := DirectionASC
		if rawDirection := values.Get(prefix + "[dir]"); strings.TrimSpace(rawDirection) != "" {
			direction, err = ParseDirection(rawDirection)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidCriterias, err)
			}
		}

		c.Sorting = append(c.Sorting, SortedColumn{Index: index, Direction: direction})
	}

	return c, nil
}

func (d *ColumnDef) setSearch(term string) {
	if strings.TrimSpace(term) == "" {
		return
	}

	d.Filtered = true

	parts := strings.Split(term, rangeSeparator)
	switch {
	case term == rangeSeparator:
		d.Search = ""
	case strings.HasPrefix(term, rangeSeparator):
		d.SearchTo = parts[1]
	case strings.HasSuffix(term, rangeSeparator):
		d.SearchFrom = parts[0]
	case len(parts) > 1:
		d.SearchFrom, d.SearchTo = parts[0], parts[1]
	default:
		d.Search = term
	}
}

// HasOneFilterableColumn reports whether a column is searchable.
func (c *Criterias) HasOneFilterableColumn() bool {
	return lo.SomeBy(c.Columns, func(column ColumnDef) bool {
		return column.Searchable
	})
}

// HasOneFilteredColumn reports whether a column carries a search term.
func (c *Criterias) HasOneFilteredColumn() bool {
	return lo.SomeBy(c.Columns, func(column ColumnDef) bool {
		return strings.TrimSpace(column.Search) != "" ||
			strings.TrimSpace(column.SearchFrom) != "" ||
			strings.TrimSpace(column.SearchTo) != ""
	})
}

// HasOneSortedColumn reports whether the request orders the data.
func (c *Criterias) HasOneSortedColumn() bool {
	return len(c.Sorting) > 0
}

// IsSearching reports whether the request narrows down the records.
func (c *Criterias) IsSearching() bool {
	return strings.TrimSpace(c.Search) != "" || c.HasOneFilteredColumn()
}

// Limit returns the number of requested records, NoLimit for every record.
// The requested length is never capped.
func (c *Criterias) Limit() int {
	return NormalizePageLength(c.Length)
}

// Offset returns the index of the first requested record.
func (c *Criterias) Offset() int {
	return max(c.Start, 0)
}

// Orderings resolves the sorted columns through columnMapping. Sorting on a
// column not declared orderable is rejected.
func (c *Criterias) Orderings(columnMapping ColumnMapping) (Orderings, error) {
	for _, sorted := range c.Sorting {
		if column := c.Columns[sorted.Index]; !column.Orderable {
			return nil, fmt.Errorf("%w: column '%s' is not orderable", ErrInvalidCriterias, column.Name)
		}
	}

	sorts := lo.Map(c.Sorting, func(sorted SortedColumn, _ int) string {
		return fmt.Sprintf("%s %s", c.Columns[sorted.Index].Name, sorted.Direction)
	})

	orderings, err := ParseSort(sorts, columnMapping)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCriterias, err)
	}

	return orderings, nil
}

// columnCount returns the highest column index found in the parameter names
// plus one.
func columnCount(values url.Values) int {
	count := 0
	for param := range values {
		for _, match := range _columnParamPattern.FindAllStringSubmatch(param, -1) {
			index, err := strconv.Atoi(match[1])
			if err == nil && index+1 > count {
				count = index + 1
			}
		}
	}

	return count
}

func intParam(values url.Values, name string) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return -1, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s='%s'", ErrInvalidCriterias, name, raw)
	}

	return v, nil
}

func boolParam(values url.Values, name string) bool {
	v, _ := strconv.ParseBool(strings.TrimSpace(values.Get(name)))
	return v
}
