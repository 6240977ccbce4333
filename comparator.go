package gotables

import (
	"fmt"

	"github.com/samber/lo"
)

// SortType is a named ordering over the textual content of a cell.
//
// Implementations must be pure: the result only depends on the arguments.
// For every a, b: Compare(a, b, DirectionASC) == -Compare(a, b, DirectionDESC).
type SortType interface {
	// Name is the key under which the sort type is registered.
	Name() string
	// HasNormalizer reports whether raw cells go through a normalization step
	// before being compared.
	HasNormalizer() bool
	// Compare normalizes both cells and orders them in the given direction.
	// Returns -1, 0 or 1.
	Compare(a, b string, direction Direction) int
	// Indexed normalizes every cell once and returns an ascending comparison
	// over cell indexes. Used when ordering many rows by the same column.
	Indexed(cells []string) func(i, j int) int
}

// Comparator is a SortType whose cells are normalized into keys of type K.
//
//	percent := gotables.NewComparator("percent", parsePercent, gotables.CompareNumbers)
type Comparator[K any] struct {
	name      string
	normalize func(raw string) K
	asc       func(x, y K) int
}

// NewComparator builds a comparator with a normalization step. A nil
// normalize is only valid when K is string.
func NewComparator[K any](name string, normalize func(raw string) K, asc func(x, y K) int) *Comparator[K] {
	return &Comparator[K]{
		name:      name,
		normalize: normalize,
		asc:       asc,
	}
}

// NewStringComparator builds a comparator working on raw cells as-is.
func NewStringComparator(name string, asc func(x, y string) int) *Comparator[string] {
	return NewComparator[string](name, nil, asc)
}

// Name - implements SortType.
func (c *Comparator[K]) Name() string {
	return c.name
}

// HasNormalizer - implements SortType.
func (c *Comparator[K]) HasNormalizer() bool {
	return c.normalize != nil
}

// Normalize converts a raw cell into its comparable key.
func (c *Comparator[K]) Normalize(raw string) K {
	if c.normalize == nil {
		key, _ := any(raw).(K)
		return key
	}

	return c.normalize(raw)
}

// CompareAsc orders two normalized keys ascending.
func (c *Comparator[K]) CompareAsc(x, y K) int {
	return c.asc(x, y)
}

// CompareDesc orders two normalized keys descending. It is always the sign
// inverse of CompareAsc.
func (c *Comparator[K]) CompareDesc(x, y K) int {
	return -c.asc(x, y)
}

// Compare - implements SortType.
func (c *Comparator[K]) Compare(a, b string, direction Direction) int {
	x, y := c.Normalize(a), c.Normalize(b)

	return lo.Ternary(direction == DirectionDESC, c.CompareDesc(x, y), c.CompareAsc(x, y))
}

// Indexed - implements SortType.
func (c *Comparator[K]) Indexed(cells []string) func(i, j int) int {
	keys := lo.Map(cells, func(cell string, _ int) K {
		return c.Normalize(cell)
	})

	return func(i, j int) int {
		return c.asc(keys[i], keys[j])
	}
}

func (c *Comparator[K]) validate() error {
	if c == nil {
		return fmt.Errorf("comparator is nil")
	}

	if c.asc == nil {
		return fmt.Errorf("comparator '%s' has no ordering function", c.name)
	}

	if _, ok := any("").(K); c.normalize == nil && !ok {
		return fmt.Errorf("comparator '%s' requires a normalizer for non-string keys", c.name)
	}

	return nil
}

var _ SortType = (*Comparator[string])(nil)

// CompareNumbers orders two numbers with the plain "<" and ">" operators.
// NaN is neither smaller nor greater than anything and compares as equal.
func CompareNumbers(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// CompareStrings orders two strings lexicographically by bytes.
func CompareStrings(x, y string) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
