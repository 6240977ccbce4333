package gotables

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// DefaultWindowWidth is the number of page buttons shown around the current
// page.
const DefaultWindowWidth = 5

var ErrInvalidPagingState = errors.New("invalid paging state")

// PagingState is the paging part of the host table settings.
//
// PageLength may be NoLimit, in which case every record is on a single page.
type PagingState struct {
	// DisplayStart is the index of the first displayed record.
	DisplayStart int
	// PageLength is the number of records per page.
	PageLength int
	// TotalRecords is the number of records before filtering.
	TotalRecords int
	// FilteredRecords is the number of records after filtering.
	FilteredRecords int
}

// CurrentPage returns the 0-based index of the displayed page.
func (s PagingState) CurrentPage() int {
	if s.PageLength <= 0 || s.DisplayStart <= 0 {
		return 0
	}

	return s.DisplayStart / s.PageLength
}

// TotalPages returns the number of pages needed for the filtered records.
func (s PagingState) TotalPages() int {
	switch {
	case s.FilteredRecords <= 0:
		return 0
	case s.PageLength == NoLimit:
		return 1
	case s.PageLength <= 0:
		return 0
	}

	return (s.FilteredRecords + s.PageLength - 1) / s.PageLength
}

// DisplayEnd returns the index after the last displayed record.
func (s PagingState) DisplayEnd() int {
	if s.PageLength == NoLimit {
		return s.FilteredRecords
	}

	return max(min(s.DisplayStart+s.PageLength, s.FilteredRecords), 0)
}

// Validate checks the field domains and that the current page exists.
func (s PagingState) Validate() error {
	switch {
	case s.DisplayStart < 0:
		return fmt.Errorf("%w: negative display start %d", ErrInvalidPagingState, s.DisplayStart)
	case s.PageLength <= 0 && s.PageLength != NoLimit:
		return fmt.Errorf("%w: page length %d", ErrInvalidPagingState, s.PageLength)
	case s.TotalRecords < 0 || s.FilteredRecords < 0:
		return fmt.Errorf("%w: negative record count", ErrInvalidPagingState)
	case s.CurrentPage() >= max(s.TotalPages(), 1):
		return fmt.Errorf("%w: page %d out of %d", ErrInvalidPagingState, s.CurrentPage(), s.TotalPages())
	}

	return nil
}

// ClampedStart returns the display start moved into
// [0, (TotalPages-1)*PageLength].
func (s PagingState) ClampedStart() int {
	return max(min(s.DisplayStart, (s.TotalPages()-1)*max(s.PageLength, 0)), 0)
}

// PagingInfo is a snapshot of the paging state with the derived values.
type PagingInfo struct {
	Start         int `json:"start"`
	End           int `json:"end"`
	Length        int `json:"length"`
	Total         int `json:"total"`
	FilteredTotal int `json:"filteredTotal"`
	Page          int `json:"page"`
	TotalPages    int `json:"totalPages"`
}

func (s PagingState) Info() PagingInfo {
	return PagingInfo{
		Start:         s.DisplayStart,
		End:           s.DisplayEnd(),
		Length:        s.PageLength,
		Total:         s.TotalRecords,
		FilteredTotal: s.FilteredRecords,
		Page:          s.CurrentPage(),
		TotalPages:    s.TotalPages(),
	}
}

// PageWindow is the range of page numbers rendered as buttons, together with
// the state of the navigation controls. Page numbers are 1-based.
type PageWindow struct {
	Start      int `json:"start"`
	End        int `json:"end"`
	Active     int `json:"active"`
	TotalPages int `json:"totalPages"`

	FirstDisabled    bool `json:"firstDisabled"`
	PreviousDisabled bool `json:"previousDisabled"`
	NextDisabled     bool `json:"nextDisabled"`
	LastDisabled     bool `json:"lastDisabled"`
}

// Pages returns the page numbers of the window in ascending order.
func (w PageWindow) Pages() []int {
	if w.End < w.Start {
		return nil
	}

	return lo.RangeFrom(w.Start, w.End-w.Start+1)
}

// IsActive reports whether page is the displayed one.
func (w PageWindow) IsActive(page int) bool {
	return page == w.Active
}

// ComputePageWindow computes the window of width page buttons for state. The
// window is anchored to the first or the last page when the current page is
// close to either end, and follows the current page otherwise.
//
// Non-positive widths fall back to DefaultWindowWidth.
func ComputePageWindow(state PagingState, width int) PageWindow {
	if width <= 0 {
		width = DefaultWindowWidth
	}

	page, totalPages, half := state.CurrentPage(), state.TotalPages(), width/2
	w := PageWindow{
		Active:     page + 1,
		TotalPages: totalPages,
	}

	switch {
	case totalPages < width:
		w.Start, w.End = 1, totalPages
	case page <= half:
		w.Start, w.End = 1, width
	case page >= totalPages-half:
		w.Start, w.End = totalPages-width+1, totalPages
	default:
		w.Start = page - half + 1
		w.End = w.Start + width - 1
	}

	w.FirstDisabled = page == 0
	w.PreviousDisabled = w.FirstDisabled
	w.LastDisabled = page == totalPages-1 || totalPages == 0
	w.NextDisabled = w.LastDisabled

	return w
}

// PageAction is a navigation request issued by the First/Previous/Next/Last
// controls.
type PageAction string

const (
	PageFirst    PageAction = "first"
	PagePrevious PageAction = "previous"
	PageNext     PageAction = "next"
	PageLast     PageAction = "last"
)

func (a PageAction) Valid() bool {
	return a == PageFirst || a == PagePrevious || a == PageNext || a == PageLast
}

// ParsePageAction parses an action name in any letter case.
func ParsePageAction(s string) (PageAction, error) {
	action := PageAction(strings.ToLower(strings.TrimSpace(s)))
	if !action.Valid() {
		return "", fmt.Errorf("invalid page action '%s'", s)
	}

	return action, nil
}

// PageStart returns the display start of the 1-based page.
func PageStart(page int, state PagingState) int {
	if page < 1 || state.PageLength <= 0 {
		return 0
	}

	return (page - 1) * state.PageLength
}

// ChangePage moves state to the page designated by action and clamps the
// display start into [0, (TotalPages-1)*PageLength]. Returns true if the
// display start changed, meaning the table has to be redrawn.
func ChangePage(state *PagingState, action PageAction) bool {
	if state == nil || !action.Valid() {
		return false
	}

	start, length := state.DisplayStart, state.PageLength
	if length <= 0 {
		length = 0
	}

	switch action {
	case PageFirst:
		start = 0
	case PagePrevious:
		start -= length
	case PageNext:
		if start+length < state.FilteredRecords {
			start += length
		}
	case PageLast:
		start = (state.TotalPages() - 1) * length
	}

	start = max(min(start, (state.TotalPages()-1)*length), 0)

	changed := start != state.DisplayStart
	state.DisplayStart = start

	return changed
}
