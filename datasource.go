package gotables

import (
	"context"
	"database/sql/driver"
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Response is the payload expected by the widget in server-side processing
// mode.
type Response[T any] struct {
	Draw            int    `json:"draw"`
	RecordsTotal    int64  `json:"recordsTotal"`
	RecordsFiltered int64  `json:"recordsFiltered"`
	Data            []T    `json:"data"`
	Error           string `json:"error,omitempty"`
}

// toCNF builds the search condition. Columns are resolved through
// columnMapping: the global search only covers searchable mapped columns, a
// column search on an unmapped column is an error.
func (c *Criterias) toCNF(columnMapping ColumnMapping) (tCNF, error) {
	cnf := make(tCNF, 0, len(c.Columns)+1)

	if search := strings.TrimSpace(c.Search); search != "" {
		global := make(tDisjunction, 0, len(c.Columns))
		for _, column := range c.Columns {
			name, ok := columnMapping[column.Name]
			if !column.Searchable || !ok {
				continue
			}

			if err := validateColumnName(name); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidCriterias, err)
			}

			global = append(global, tPredicate{Column: name, Operator: OperatorLike, Value: likeContains(search)})
		}

		cnf = append(cnf, global)
	}

	aliases := lo.Keys(columnMapping)
	for _, column := range c.Columns {
		if !column.Filtered {
			continue
		}

		name, ok := columnMapping[column.Name]
		if !ok {
			return nil, fmt.Errorf("%w: invalid column alias. closest: '%s'", ErrInvalidCriterias, closestAlias(column.Name, aliases))
		}

		if err := validateColumnName(name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCriterias, err)
		}

		if column.Search != "" {
			cnf = append(cnf, tDisjunction{{Column: name, Operator: OperatorLike, Value: likeContains(column.Search)}})
		}
		if column.SearchFrom != "" {
			cnf = append(cnf, tDisjunction{{Column: name, Operator: OperatorGTE, Value: column.SearchFrom}})
		}
		if column.SearchTo != "" {
			cnf = append(cnf, tDisjunction{{Column: name, Operator: OperatorLTE, Value: column.SearchTo}})
		}
	}

	return cnf, nil
}

// ApplySearch narrows db down to the records matching the global and column
// searches.
func (c *Criterias) ApplySearch(db *gorm.DB, columnMapping ColumnMapping) (*gorm.DB, error) {
	cnf, err := c.toCNF(columnMapping)
	if err != nil {
		return nil, fmt.Errorf("cannot apply search: %w", err)
	}

	exp := cnf.toGORMExpression()
	if exp == nil {
		return db, nil
	}

	return db.Clauses(exp), nil
}

// Apply applies search, ordering and paging to db.
func (c *Criterias) Apply(db *gorm.DB, columnMapping ColumnMapping) (*gorm.DB, error) {
	db, err := c.ApplySearch(db, columnMapping)
	if err != nil {
		return nil, err
	}

	orderings, err := c.Orderings(columnMapping)
	if err != nil {
		return nil, fmt.Errorf("cannot apply ordering: %w", err)
	}
	if err = orderings.validate(); err != nil {
		return nil, fmt.Errorf("cannot apply ordering: %w", err)
	}
	db = orderings.Apply(db)

	if limit := c.Limit(); limit != NoLimit {
		db = db.Limit(limit)
	}
	if offset := c.Offset(); offset > 0 {
		db = db.Offset(offset)
	}

	return db, nil
}

// ToSQL returns the search condition as an SQL expression with its
// placeholder values.
//
// Usage:
//
//	where, args, err := criterias.ToSQL(mapping)
//	query := fmt.Sprintf("SELECT * FROM table WHERE %s", where)
func (c *Criterias) ToSQL(columnMapping ColumnMapping) (string, []driver.Value, error) {
	cnf, err := c.toCNF(columnMapping)
	if err != nil {
		return "", nil, err
	}

	sqlClause, values := cnf.toSQLClause()

	return sqlClause, values, nil
}

// Fetch counts the total and the matching records of db and loads the
// requested page into a Response. db must designate the queried model or
// table, e.g. db.Model(&User{}).
func Fetch[T any](
	ctx context.Context,
	db *gorm.DB,
	criterias *Criterias,
	columnMapping ColumnMapping,
	opts ...Option,
) (*Response[T], error) {
	if criterias == nil {
		return nil, fmt.Errorf("cannot fetch: %w: nil criterias", ErrInvalidCriterias)
	}

	o := newOptions(opts...)
	logger := o.logger
	base := db.WithContext(ctx)

	if o.maxLength > 0 {
		if capped, ok := criterias.capLength(o.maxLength); ok {
			logger.Warn("requested length capped",
				zap.Int("length", criterias.Length),
				zap.Int("maxLength", capped.Length),
			)
			criterias = capped
		}
	}

	resp := &Response[T]{Draw: criterias.Draw}
	if err := base.Count(&resp.RecordsTotal).Error; err != nil {
		return nil, fmt.Errorf("cannot count records: %w", err)
	}

	resp.RecordsFiltered = resp.RecordsTotal
	if criterias.IsSearching() {
		searched, err := criterias.ApplySearch(base, columnMapping)
		if err != nil {
			return nil, err
		}

		if err = searched.Count(&resp.RecordsFiltered).Error; err != nil {
			return nil, fmt.Errorf("cannot count filtered records: %w", err)
		}
	}

	query, err := criterias.Apply(base, columnMapping)
	if err != nil {
		return nil, err
	}

	resp.Data = make([]T, 0)
	if err = query.Find(&resp.Data).Error; err != nil {
		return nil, fmt.Errorf("cannot load records: %w", err)
	}

	logger.Debug("table page fetched",
		zap.Int("draw", resp.Draw),
		zap.Int64("recordsTotal", resp.RecordsTotal),
		zap.Int64("recordsFiltered", resp.RecordsFiltered),
		zap.Int("rows", len(resp.Data)),
	)

	return resp, nil
}

// capLength returns a copy of c loading at most maxLength records. The
// boolean reports whether the length was capped.
func (c *Criterias) capLength(maxLength int) (*Criterias, bool) {
	length := c.Limit()
	if length == NoLimit {
		length = math.MaxInt
	}

	capped, ok := IsNormalizedLimitMax(length, maxLength)
	if ok {
		return c, false
	}

	cp := *c
	cp.Length = capped

	return &cp, true
}

// PagingStateOf returns the paging state the widget displays for resp.
func PagingStateOf[T any](criterias *Criterias, resp *Response[T]) PagingState {
	return PagingState{
		DisplayStart:    criterias.Offset(),
		PageLength:      criterias.Limit(),
		TotalRecords:    int(resp.RecordsTotal),
		FilteredRecords: int(resp.RecordsFiltered),
	}
}
