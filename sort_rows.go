package gotables

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// SortColumn describes one level of a multi-column row ordering.
type SortColumn[T any] struct {
	// Cell extracts the textual cell value of the column from a row.
	Cell func(row T) string
	// Type orders the cell values.
	Type SortType
	// Direction of the ordering.
	Direction Direction
}

// SortRows stably orders rows by columns: ties on the first column are broken
// by the second one and so on. Every cell is normalized once.
func SortRows[T any](rows []T, columns []SortColumn[T]) error {
	for i, column := range columns {
		if column.Cell == nil || column.Type == nil {
			return fmt.Errorf("sort column %d: cell getter and sort type are required", i)
		}
		if !column.Direction.Valid() {
			return fmt.Errorf("sort column %d: invalid ordering direction '%s'", i, column.Direction)
		}
	}

	if len(rows) < 2 || len(columns) == 0 {
		return nil
	}

	comparators := lo.Map(columns, func(column SortColumn[T], _ int) func(i, j int) int {
		cells := lo.Map(rows, func(row T, _ int) string {
			return column.Cell(row)
		})

		return column.Type.Indexed(cells)
	})

	order := lo.Range(len(rows))
	slices.SortStableFunc(order, func(i, j int) int {
		for k, cmp := range comparators {
			if c := columns[k].Direction.apply(cmp(i, j)); c != 0 {
				return c
			}
		}

		return 0
	})

	sorted := make([]T, len(rows))
	for k, i := range order {
		sorted[k] = rows[i]
	}
	copy(rows, sorted)

	return nil
}
