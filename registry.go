package gotables

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var (
	ErrInvalidSortType     = errors.New("invalid sort type")
	ErrDuplicateSortType   = errors.New("sort type already registered")
	ErrUnknownSortType     = errors.New("unknown sort type")
	ErrInvalidPagination   = errors.New("invalid pagination type")
	ErrDuplicatePagination = errors.New("pagination type already registered")
	ErrUnknownPagination   = errors.New("unknown pagination type")
)

// PaginationBootstrapFourButton is the name of the pagination control with
// First/Previous/Next/Last buttons around a window of page numbers.
const PaginationBootstrapFourButton = "bootstrap_four_button"

// PaginationFactory creates a pagination plugin bound to a host.
type PaginationFactory func(host PagingHost, opts ...Option) (PaginationPlugin, error)

// Registry holds the sort types and pagination plugins available to a table.
// Names are matched case-insensitively and without surrounding white space.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	sortTypes   map[string]SortType
	paginations map[string]PaginationFactory
	logger      *zap.Logger
}

func NewRegistry(opts ...Option) *Registry {
	o := newOptions(opts...)

	return &Registry{
		sortTypes:   make(map[string]SortType),
		paginations: make(map[string]PaginationFactory),
		logger:      o.logger,
	}
}

// NewDefaultRegistry returns a Registry with every built-in sort type and the
// bootstrap_four_button pagination registered.
func NewDefaultRegistry(opts ...Option) *Registry {
	r := NewRegistry(opts...)

	for _, sortType := range []SortType{
		NewStringComparator(SortString, strings.Compare),
		NewLocaleStringComparator(SortChineseString, language.Chinese),
		NewLocaleStringComparator(SortTurkishString, language.Turkish),
		NewLocaleStringComparator(SortPersian, language.Persian),
		NewAltStringComparator(),
		NewAntiTheComparator(),
		NewNaturalComparator(),
		NewSignedNumComparator(),
		NewScientificComparator(),
		NewFileSizeComparator(),
		NewDateEUComparator(),
		NewDateUKComparator(),
		NewDateEuroComparator(),
		NewDeDateComparator(),
		NewDeDateTimeComparator(),
		NewIPAddressComparator(),
	} {
		if err := r.Register(sortType); err != nil {
			panic(fmt.Errorf("cannot register built-in sort type: %w", err))
		}
	}

	err := r.RegisterPagination(PaginationBootstrapFourButton, func(host PagingHost, opts ...Option) (PaginationPlugin, error) {
		return NewPaginationControl(host, opts...)
	})
	if err != nil {
		panic(fmt.Errorf("cannot register built-in pagination: %w", err))
	}

	return r
}

// Register adds a sort type. Fails if the sort type is nil, unnamed, or its
// name is already taken.
func (r *Registry) Register(sortType SortType) error {
	if sortType == nil {
		return fmt.Errorf("%w: nil", ErrInvalidSortType)
	}

	key := registryKey(sortType.Name())
	if key == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidSortType)
	}

	if v, ok := sortType.(interface{ validate() error }); ok {
		if err := v.validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSortType, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sortTypes[key]; ok {
		return fmt.Errorf("%w: '%s'", ErrDuplicateSortType, key)
	}
	r.sortTypes[key] = sortType

	r.logger.Debug("sort type registered",
		zap.String("name", key),
		zap.Bool("normalized", sortType.HasNormalizer()),
	)

	return nil
}

// Lookup returns the sort type registered under name. The error of an
// unknown name carries the closest registered one.
func (r *Registry) Lookup(name string) (SortType, error) {
	key := registryKey(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	sortType, ok := r.sortTypes[key]
	if !ok {
		return nil, fmt.Errorf("%w '%s'. closest: '%s'", ErrUnknownSortType, name, closestAlias(key, lo.Keys(r.sortTypes)))
	}

	return sortType, nil
}

// Names returns the registered sort type names in ascending order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.sortTypes)
	slices.Sort(names)

	return names
}

// RegisterPagination adds a pagination plugin factory under name.
func (r *Registry) RegisterPagination(name string, factory PaginationFactory) error {
	key := registryKey(name)
	if key == "" || factory == nil {
		return fmt.Errorf("%w: '%s'", ErrInvalidPagination, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.paginations[key]; ok {
		return fmt.Errorf("%w: '%s'", ErrDuplicatePagination, key)
	}
	r.paginations[key] = factory

	r.logger.Debug("pagination type registered", zap.String("name", key))

	return nil
}

// Pagination returns the pagination plugin factory registered under name.
func (r *Registry) Pagination(name string) (PaginationFactory, error) {
	key := registryKey(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.paginations[key]
	if !ok {
		return nil, fmt.Errorf("%w '%s'. closest: '%s'", ErrUnknownPagination, name, closestAlias(key, lo.Keys(r.paginations)))
	}

	return factory, nil
}

func registryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
