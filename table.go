package gotables

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Table is an in-memory host processing its rows on the client side: it
// filters, orders and pages textual rows the way the browser widget does.
//
// Table implements FilterHost and PagingHost. It is not safe for concurrent
// use.
type Table struct {
	config    TableConfig
	registry  *Registry
	sortTypes []SortType
	rows      [][]string

	globalSearch  string
	columnSearch  []string
	order         Orderings
	displayStart  int
	filteredCount int
	page          [][]string
	draws         int

	pagination PaginationPlugin
	onDraw     func(page [][]string)
	logger     *zap.Logger
	opts       []Option
}

// NewTable creates a table over rows. Rows shorter than the column list read
// as empty cells.
func NewTable(config *TableConfig, registry *Registry, rows [][]string, opts ...Option) (*Table, error) {
	if config == nil || registry == nil {
		return nil, fmt.Errorf("table requires a config and a registry")
	}

	cfg := *config
	cfg.applyDefaults()
	if err := cfg.Validate(registry); err != nil {
		return nil, err
	}

	plain, err := registry.Lookup(SortString)
	if err != nil {
		plain = NewStringComparator(SortString, strings.Compare)
	}

	sortTypes := make([]SortType, len(cfg.Columns))
	for i, column := range cfg.Columns {
		if column.SortType == "" {
			sortTypes[i] = plain
			continue
		}

		sortTypes[i], err = registry.Lookup(column.SortType)
		if err != nil {
			return nil, err
		}
	}

	order, err := cfg.Orderings()
	if err != nil {
		return nil, err
	}

	o := newOptions(opts...)

	return &Table{
		config:        cfg,
		registry:      registry,
		sortTypes:     sortTypes,
		rows:          rows,
		columnSearch:  make([]string, len(cfg.Columns)),
		order:         order,
		filteredCount: len(rows),
		logger:        o.logger,
		opts:          opts,
	}, nil
}

// ColumnCount - implements FilterHost.
func (t *Table) ColumnCount() int {
	return len(t.config.Columns)
}

// ColumnName - implements FilterHost.
func (t *Table) ColumnName(i int) string {
	return t.config.Columns[i].Name
}

// SetColumnSearch - implements FilterHost. A new term moves the display back
// to the first page.
func (t *Table) SetColumnSearch(i int, term string) {
	if t.columnSearch[i] != term {
		t.displayStart = 0
	}
	t.columnSearch[i] = term
}

// SetGlobalSearch - implements FilterHost. A new term moves the display back
// to the first page.
func (t *Table) SetGlobalSearch(term string) {
	if t.globalSearch != term {
		t.displayStart = 0
	}
	t.globalSearch = term
}

// GlobalSearch returns the global search term.
func (t *Table) GlobalSearch() string {
	return t.globalSearch
}

// ColumnSearch returns the search term of the i-th column.
func (t *Table) ColumnSearch(i int) string {
	return t.columnSearch[i]
}

// PagingState - implements PagingHost.
func (t *Table) PagingState() PagingState {
	return PagingState{
		DisplayStart:    t.displayStart,
		PageLength:      t.config.PageLength,
		TotalRecords:    len(t.rows),
		FilteredRecords: t.filteredCount,
	}
}

// SetDisplayStart - implements PagingHost.
func (t *Table) SetDisplayStart(start int) {
	t.displayStart = max(start, 0)
}

// PageChange - implements PagingHost.
func (t *Table) PageChange(action PageAction) bool {
	state := t.PagingState()
	changed := ChangePage(&state, action)
	t.displayStart = state.DisplayStart

	return changed
}

// SetOrder replaces the ordering. Columns are referenced by name and must be
// orderable.
func (t *Table) SetOrder(order Orderings) error {
	if err := order.validate(); err != nil {
		return err
	}

	names := lo.Keys(t.config.ColumnMapping())
	for _, column := range order.Columns() {
		i := t.config.ColumnIndex(column)
		if i < 0 {
			return fmt.Errorf("invalid column alias. closest: '%s'", closestAlias(column, names))
		}
		if !t.config.Columns[i].IsOrderable() {
			return fmt.Errorf("column '%s' is not orderable", column)
		}
	}

	t.order = order

	return nil
}

// Order returns the current ordering.
func (t *Table) Order() Orderings {
	return t.order
}

// OnDraw registers a hook called with the displayed rows after every Redraw.
func (t *Table) OnDraw(hook func(page [][]string)) {
	t.onDraw = hook
}

// AttachPagination renders the configured pagination type into container.
// The control is updated on every Redraw.
func (t *Table) AttachPagination(container PaginationRenderer) error {
	if t.pagination == nil {
		factory, err := t.registry.Pagination(t.config.PaginationType)
		if err != nil {
			return err
		}

		opts := append([]Option{
			WithLogger(t.logger),
			WithWindowWidth(t.config.WindowWidth),
			WithLabels(t.config.Labels),
		}, t.opts...)

		t.pagination, err = factory(t, opts...)
		if err != nil {
			return fmt.Errorf("cannot create pagination '%s': %w", t.config.PaginationType, err)
		}
	}

	return t.pagination.Init(container, t.Redraw)
}

// view returns the rows matching the searches in the current order.
func (t *Table) view() [][]string {
	matched := lo.Filter(t.rows, func(row []string, _ int) bool {
		return t.matches(row)
	})

	columns := make([]SortColumn[[]string], 0, len(t.order))
	for _, orderBy := range t.order {
		i := t.config.ColumnIndex(orderBy.Column)
		columns = append(columns, SortColumn[[]string]{
			Cell:      func(row []string) string { return cellAt(row, i) },
			Type:      t.sortTypes[i],
			Direction: orderBy.Direction,
		})
	}
	if err := SortRows(matched, columns); err != nil {
		t.logger.Error("cannot order rows", zap.Error(err))
	}

	return matched
}

// Draw filters and orders the rows, clamps the display start and returns the
// displayed rows.
func (t *Table) Draw() [][]string {
	matched := t.view()

	t.filteredCount = len(matched)
	state := t.PagingState()
	if t.displayStart >= state.FilteredRecords || state.PageLength == NoLimit {
		t.displayStart = max((state.TotalPages()-1)*max(state.PageLength, 0), 0)
		state.DisplayStart = t.displayStart
	}

	t.page = matched[min(state.DisplayStart, len(matched)):state.DisplayEnd()]

	return t.page
}

// Redraw - implements FilterHost.
func (t *Table) Redraw() {
	page := t.Draw()
	t.draws++

	t.logger.Debug("table redrawn",
		zap.Int("draw", t.draws),
		zap.Int("filtered", t.filteredCount),
		zap.Int("total", len(t.rows)),
		zap.Int("displayStart", t.displayStart),
	)

	if t.pagination != nil {
		if err := t.pagination.Update(t.Redraw); err != nil {
			t.logger.Error("cannot update pagination", zap.Error(err))
		}
	}

	if t.onDraw != nil {
		t.onDraw(page)
	}
}

// DrawCount returns the number of redraws.
func (t *Table) DrawCount() int {
	return t.draws
}

// Page returns the rows displayed by the last draw.
func (t *Table) Page() [][]string {
	return t.page
}

// matches applies the column search terms as case-insensitive substrings and
// requires every word of the global search term in some searchable column.
func (t *Table) matches(row []string) bool {
	for i, term := range t.columnSearch {
		if term != "" && !containsFold(cellAt(row, i), term) {
			return false
		}
	}

	for _, word := range strings.Fields(t.globalSearch) {
		found := false
		for i, column := range t.config.Columns {
			if column.IsSearchable() && containsFold(cellAt(row, i), word) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}

	return row[i]
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

var (
	_ FilterHost = (*Table)(nil)
	_ PagingHost = (*Table)(nil)
)
