package gotables

import (
	"fmt"

	"go.uber.org/zap"
)

// DrawFunc redraws the host table.
type DrawFunc func()

// PaginateLabels are the captions of the static navigation controls.
type PaginateLabels struct {
	First    string `yaml:"first"`
	Previous string `yaml:"previous"`
	Next     string `yaml:"next"`
	Last     string `yaml:"last"`
}

var DefaultPaginateLabels = PaginateLabels{
	First:    "First",
	Previous: "Previous",
	Next:     "Next",
	Last:     "Last",
}

// PaginationRenderer draws a pagination control into one container. It is
// implemented by the host, which owns the markup.
type PaginationRenderer interface {
	// RenderControls draws the First/Previous/Next/Last controls. onAction
	// must be called when one of them is activated.
	RenderControls(labels PaginateLabels, onAction func(action PageAction))
	// RenderWindow replaces the page buttons between the static controls and
	// updates their disabled state. onPage must be called with the 1-based
	// page number when a page button is activated.
	RenderWindow(window PageWindow, onPage func(page int))
}

// PagingHost exposes the paging state of the host table.
type PagingHost interface {
	PagingState() PagingState
	SetDisplayStart(start int)
	// PageChange moves the display start as ChangePage does and reports
	// whether it changed.
	PageChange(action PageAction) bool
}

// PaginationPlugin is the contract of a pagination control towards the host.
type PaginationPlugin interface {
	// Init renders the control into container. A plugin may be initialised
	// with several containers, e.g. above and below the table.
	Init(container PaginationRenderer, draw DrawFunc) error
	// Update re-renders every container after the host redrew the table.
	Update(draw DrawFunc) error
}

// PaginationControl renders a window of page buttons framed by
// First/Previous and Next/Last controls.
type PaginationControl struct {
	host       PagingHost
	width      int
	labels     PaginateLabels
	containers []PaginationRenderer
	logger     *zap.Logger
}

func NewPaginationControl(host PagingHost, opts ...Option) (*PaginationControl, error) {
	if host == nil {
		return nil, fmt.Errorf("pagination control requires a paging host")
	}

	o := newOptions(opts...)

	return &PaginationControl{
		host:   host,
		width:  o.windowWidth,
		labels: o.labels,
		logger: o.logger,
	}, nil
}

// Init - implements PaginationPlugin.
func (c *PaginationControl) Init(container PaginationRenderer, draw DrawFunc) error {
	if container == nil {
		return fmt.Errorf("cannot init pagination: nil container")
	}

	c.containers = append(c.containers, container)
	container.RenderControls(c.labels, func(action PageAction) {
		c.Navigate(action, draw)
	})

	return nil
}

// Update - implements PaginationPlugin. A display start past the last page is
// moved to the last page before rendering.
func (c *PaginationControl) Update(draw DrawFunc) error {
	state := c.host.PagingState()
	if err := state.Validate(); err != nil {
		c.logger.Warn("clamping paging state", zap.Error(err))
		c.host.SetDisplayStart(state.ClampedStart())

		state = c.host.PagingState()
		if err := state.Validate(); err != nil {
			return fmt.Errorf("cannot update pagination: %w", err)
		}
	}

	window := ComputePageWindow(state, c.width)
	c.logger.Debug("pagination window computed",
		zap.Int("start", window.Start),
		zap.Int("end", window.End),
		zap.Int("active", window.Active),
		zap.Int("totalPages", window.TotalPages),
	)

	for _, container := range c.containers {
		container.RenderWindow(window, func(page int) {
			c.SelectPage(page, draw)
		})
	}

	return nil
}

// Navigate applies action through the host and draws only if the page
// changed. Returns whether it changed.
func (c *PaginationControl) Navigate(action PageAction, draw DrawFunc) bool {
	if !c.host.PageChange(action) {
		return false
	}

	c.logger.Debug("page changed", zap.String("action", string(action)))
	if draw != nil {
		draw()
	}

	return true
}

// SelectPage displays the 1-based page and draws.
func (c *PaginationControl) SelectPage(page int, draw DrawFunc) {
	c.host.SetDisplayStart(PageStart(page, c.host.PagingState()))

	c.logger.Debug("page selected", zap.Int("page", page))
	if draw != nil {
		draw()
	}
}

var _ PaginationPlugin = (*PaginationControl)(nil)
