// Package gotables provides host-independent building blocks for tabular UI
// widgets and their server-side counterparts.
//
// # Overview
//
// gotables implements three facilities a table widget plugs into its
// extension points:
//
//   - Registry: named sort types ("date-eu", "signed-num", "anti-the", ...),
//     each a pair of an optional normalizer and an ascending comparator.
//     Descending order is always the sign inverse of ascending.
//   - ComputePageWindow / PaginationControl: the sliding window of page
//     buttons around the current page and the First/Previous/Next/Last
//     disabled flags. Rendering is delegated to a PaginationRenderer supplied
//     by the host.
//   - ApplyMultiFilter / ClearFilters: batched per-column search with a single
//     redraw.
//
// # Server-side processing
//
//   - ParseCriterias: maps the request parameters sent by the widget into
//     Criterias.
//   - Criterias.Apply / Fetch: apply search, ordering and LIMIT/OFFSET to a
//     GORM query and build the Response expected by the widget.
//
// Table is an in-memory host wiring everything together for client-side
// processing.
package gotables
