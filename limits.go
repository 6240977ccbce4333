package gotables

const (
	// NoLimit as a page length displays every record on a single page.
	NoLimit      = -1
	MaxLimit     = 100
	DefaultLimit = 10
)

// IsNormalizedLimitMax clamps limit into [1, maxLimit], replacing
// non-positive values with DefaultLimit. The boolean reports whether limit
// was already in range.
func IsNormalizedLimitMax(limit int, maxLimit int) (int, bool) {
	if limit <= 0 {
		return DefaultLimit, false
	} else if limit > maxLimit {
		return maxLimit, false
	}

	return limit, true
}

// NormalizePageLength keeps NoLimit, which the length menu uses for "All",
// and any positive length. Other values fall back to DefaultLimit. The length
// is never capped here since the widget computes its pages from the length it
// asked for. See WithMaxLength for a server-side cap.
func NormalizePageLength(length int) int {
	if length == NoLimit || length > 0 {
		return length
	}

	return DefaultLimit
}
