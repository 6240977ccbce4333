package gotables

import (
	"errors"
	"fmt"
	"io"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid table config")

// ColumnConfig declares a table column.
type ColumnConfig struct {
	// Name identifies the column in filter requests and orderings.
	Name string `yaml:"name"`
	// SortType is the name of a registered sort type. Empty means plain
	// string ordering.
	SortType string `yaml:"sortType"`
	// Searchable defaults to true.
	Searchable *bool `yaml:"searchable"`
	// Orderable defaults to true.
	Orderable *bool `yaml:"orderable"`
}

func (c ColumnConfig) IsSearchable() bool {
	return lo.FromPtrOr(c.Searchable, true)
}

func (c ColumnConfig) IsOrderable() bool {
	return lo.FromPtrOr(c.Orderable, true)
}

// TableConfig declares the columns and paging of a table.
//
//	columns:
//	  - name: title
//	    sortType: anti-the
//	  - name: released
//	    sortType: date-eu
//	pageLength: 25
//	order: ["released desc"]
type TableConfig struct {
	Columns        []ColumnConfig `yaml:"columns"`
	PageLength     int            `yaml:"pageLength"`
	WindowWidth    int            `yaml:"windowWidth"`
	PaginationType string         `yaml:"paginationType"`
	Labels         PaginateLabels `yaml:"labels"`
	// Order is the initial ordering, as "column asc|desc" strings.
	Order []string `yaml:"order"`
}

// LoadTableConfig decodes a YAML table config and fills in defaults.
func LoadTableConfig(r io.Reader) (*TableConfig, error) {
	var config TableConfig

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("cannot decode table config: %w", err)
	}

	config.applyDefaults()

	return &config, nil
}

func (c *TableConfig) applyDefaults() {
	if c.PageLength == 0 {
		c.PageLength = DefaultLimit
	}
	if c.WindowWidth <= 0 {
		c.WindowWidth = DefaultWindowWidth
	}
	if c.PaginationType == "" {
		c.PaginationType = PaginationBootstrapFourButton
	}
	if c.Labels == (PaginateLabels{}) {
		c.Labels = DefaultPaginateLabels
	}
}

// Validate checks the columns, the ordering, and that every referenced sort
// and pagination type is registered.
func (c *TableConfig) Validate(registry *Registry) error {
	if len(c.Columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidConfig)
	}
	if c.PageLength < 0 && c.PageLength != NoLimit {
		return fmt.Errorf("%w: page length %d", ErrInvalidConfig, c.PageLength)
	}

	seen := make(map[string]struct{}, len(c.Columns))
	for i, column := range c.Columns {
		if err := validateColumnName(column.Name); err != nil {
			return fmt.Errorf("%w: column %d: %w", ErrInvalidConfig, i, err)
		}
		if _, ok := seen[column.Name]; ok {
			return fmt.Errorf("%w: duplicate column '%s'", ErrInvalidConfig, column.Name)
		}
		seen[column.Name] = struct{}{}

		if column.SortType == "" || registry == nil {
			continue
		}
		if _, err := registry.Lookup(column.SortType); err != nil {
			return fmt.Errorf("%w: column '%s': %w", ErrInvalidConfig, column.Name, err)
		}
	}

	if _, err := c.Orderings(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if registry != nil {
		if _, err := registry.Pagination(c.PaginationType); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	return nil
}

// ColumnMapping maps every column name to itself.
func (c *TableConfig) ColumnMapping() ColumnMapping {
	return lo.SliceToMap(c.Columns, func(column ColumnConfig) (ColumnAlias, string) {
		return column.Name, column.Name
	})
}

// Orderings parses the initial ordering. Columns that are not orderable are
// rejected.
func (c *TableConfig) Orderings() (Orderings, error) {
	orderable := lo.PickBy(c.ColumnMapping(), func(name ColumnAlias, _ string) bool {
		return c.column(name).IsOrderable()
	})

	return ParseSort(c.Order, orderable)
}

// ColumnIndex returns the index of the column declaring name, or -1.
func (c *TableConfig) ColumnIndex(name string) int {
	_, index, ok := lo.FindIndexOf(c.Columns, func(column ColumnConfig) bool {
		return column.Name == name
	})

	return lo.Ternary(ok, index, -1)
}

func (c *TableConfig) column(name string) ColumnConfig {
	if i := c.ColumnIndex(name); i >= 0 {
		return c.Columns[i]
	}

	return ColumnConfig{}
}
