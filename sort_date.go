package gotables

import (
	"math"
	"strings"
)

// Names of the date sort types.
const (
	SortDateEU     = "date-eu"
	SortDateUK     = "date-uk"
	SortDateEuro   = "date-euro"
	SortDeDate     = "de_date"
	SortDeDateTime = "de_datetime"
)

// The date sort types build their keys by concatenating the date components
// from the most to the least significant one and reading the result as a
// number: "05.03.2020" becomes 20200305. Keys must stay identical to the
// ones computed by the browser plugins.
//
// TODO: replace the concatenated keys with typed dates once no client relies
// on comparing them with keys produced by the browser plugins.

// NewDateEUComparator orders "dd.mm.yyyy" and "dd/mm/yyyy" dates. The year is
// optional and single digit days and months are accepted. Empty cells sort
// first.
func NewDateEUComparator() *Comparator[float64] {
	return NewComparator(SortDateEU, normalizeDateEU, CompareNumbers)
}

// NewDateUKComparator orders "dd/mm/yyyy" dates.
func NewDateUKComparator() *Comparator[float64] {
	return NewComparator(SortDateUK, normalizeDateUK, CompareNumbers)
}

// NewDateEuroComparator orders "dd/mm/yyyy hh:mm:ss" timestamps. Empty cells
// sort last.
func NewDateEuroComparator() *Comparator[float64] {
	return NewComparator(SortDateEuro, normalizeDateEuro, CompareNumbers)
}

// NewDeDateComparator orders German "dd.mm.yyyy" dates. Empty cells sort last.
func NewDeDateComparator() *Comparator[float64] {
	return NewComparator(SortDeDate, normalizeDeDate, CompareNumbers)
}

// NewDeDateTimeComparator orders German "dd.mm.yyyy hh:mm" timestamps. Empty
// cells sort last.
func NewDeDateTimeComparator() *Comparator[float64] {
	return NewComparator(SortDeDateTime, normalizeDeDateTime, CompareNumbers)
}

func normalizeDateEU(raw string) float64 {
	date := strings.TrimSpace(strings.ReplaceAll(raw, " ", ""))
	if date == "" {
		return 0
	}

	separator := "/"
	if strings.Index(date, ".") > 0 {
		separator = "."
	}

	parts := strings.Split(date, separator)
	if len(parts) < 2 {
		return math.NaN()
	}

	year := "0"
	if len(parts) > 2 && parts[2] != "" {
		year = parts[2]
	}

	return concatKey(year, padDatePart(parts[1]), padDatePart(parts[0]))
}

func normalizeDateUK(raw string) float64 {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) < 3 {
		return math.NaN()
	}

	return concatKey(parts[2], parts[1], parts[0])
}

func normalizeDateEuro(raw string) float64 {
	value := strings.TrimSpace(raw)
	if value == "" {
		return math.Inf(1)
	}

	dateTime := strings.Split(value, " ")
	if len(dateTime) < 2 {
		return math.NaN()
	}

	date := strings.Split(dateTime[0], "/")
	clock := strings.Split(dateTime[1], ":")
	if len(date) < 3 || len(clock) < 3 {
		return math.NaN()
	}

	return concatKey(date[2], date[1], date[0], clock[0], clock[1], clock[2])
}

func normalizeDeDate(raw string) float64 {
	value := strings.TrimSpace(raw)
	if value == "" {
		return math.Inf(1)
	}

	date := strings.Split(value, ".")
	if len(date) < 3 {
		return math.NaN()
	}

	return concatKey(date[2], date[1], date[0])
}

func normalizeDeDateTime(raw string) float64 {
	value := strings.TrimSpace(raw)
	if value == "" {
		return math.Inf(1)
	}

	dateTime := strings.Split(value, " ")
	if len(dateTime) < 2 {
		return math.NaN()
	}

	date := strings.Split(dateTime[0], ".")
	clock := strings.Split(dateTime[1], ":")
	if len(date) < 3 || len(clock) < 2 {
		return math.NaN()
	}

	return concatKey(date[2], date[1], date[0], clock[0], clock[1])
}

func padDatePart(part string) string {
	if len(part) == 1 {
		return "0" + part
	}

	return part
}

func concatKey(parts ...string) float64 {
	return toNumber(strings.Join(parts, ""))
}
