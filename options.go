package gotables

import (
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type options struct {
	logger      *zap.Logger
	windowWidth int
	labels      PaginateLabels
	maxLength   int
}

// Option configures a Registry, a PaginationControl, a Table or Fetch.
type Option func(*options)

// WithLogger sets the logger. A nil logger is replaced by zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithWindowWidth sets the number of page buttons rendered by a
// PaginationControl. Non-positive values fall back to DefaultWindowWidth.
func WithWindowWidth(width int) Option {
	return func(o *options) {
		if width > 0 {
			o.windowWidth = width
		}
	}
}

// WithLabels sets the captions of the First/Previous/Next/Last controls.
func WithLabels(labels PaginateLabels) Option {
	return func(o *options) {
		o.labels = labels
	}
}

// WithMaxLength caps the number of records Fetch loads per request, including
// requests for every record. Non-positive values fall back to MaxLimit. The
// widget still pages by the length it asked for, so only use it to protect
// the database.
func WithMaxLength(length int) Option {
	return func(o *options) {
		o.maxLength = lo.Ternary(length > 0, length, MaxLimit)
	}
}

func newOptions(opts ...Option) options {
	o := options{
		logger:      zap.NewNop(),
		windowWidth: DefaultWindowWidth,
		labels:      DefaultPaginateLabels,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
