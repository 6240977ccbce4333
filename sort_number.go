package gotables

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Names of the numeric sort types.
const (
	SortSignedNum  = "signed-num"
	SortScientific = "scientific"
	SortFileSize   = "file-size"
)

// NewSignedNumComparator orders cells like "+5", "-3", "-" (zero) and "".
func NewSignedNumComparator() *Comparator[float64] {
	return NewComparator(SortSignedNum, normalizeSignedNum, CompareNumbers)
}

// NewScientificComparator orders cells holding numbers in exponent notation,
// e.g. "1.5e-3".
func NewScientificComparator() *Comparator[float64] {
	return NewComparator(SortScientific, parseFloatPrefix, CompareNumbers)
}

// NewFileSizeComparator orders human readable sizes such as "1.5 MB" or
// "200 KiB".
func NewFileSizeComparator() *Comparator[float64] {
	return NewComparator(SortFileSize, normalizeFileSize, CompareNumbers)
}

func normalizeSignedNum(raw string) float64 {
	if raw == "-" || raw == "" {
		return 0
	}

	return toNumber(strings.TrimPrefix(raw, "+"))
}

// toNumber converts a whole string to a number. Surrounding white space is
// ignored, an empty string is 0 and anything that is not a decimal number
// is NaN.
func toNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	// strconv also accepts "inf", "nan", hex floats and digit separators.
	if strings.ContainsAny(s, "nNxX_pP") {
		return math.NaN()
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}

	return v
}

var _floatPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// parseFloatPrefix reads the longest number at the start of raw and ignores
// whatever follows it: "12.5e2px" is 1250. Returns NaN if raw does not start
// with a number.
func parseFloatPrefix(raw string) float64 {
	match := _floatPrefix.FindString(strings.TrimLeftFunc(raw, unicode.IsSpace))
	if match == "" {
		return math.NaN()
	}

	return toNumber(match)
}

var (
	_fileSizePattern     = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([a-zA-Z]+)`)
	_fileSizeMultipliers = map[string]float64{
		"b":     1,
		"bytes": 1,
		"kb":    1e3,
		"kib":   1 << 10,
		"mb":    1e6,
		"mib":   1 << 20,
		"gb":    1e9,
		"gib":   1 << 30,
		"tb":    1e12,
		"tib":   1 << 40,
		"pb":    1e15,
		"pib":   1 << 50,
	}
)

// normalizeFileSize returns the size in bytes. Cells without a number and a
// unit are -1, unknown units are NaN.
func normalizeFileSize(raw string) float64 {
	matches := _fileSizePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if matches == nil {
		return -1
	}

	multiplier, ok := _fileSizeMultipliers[strings.ToLower(matches[2])]
	if !ok {
		return math.NaN()
	}

	return toNumber(matches[1]) * multiplier
}
