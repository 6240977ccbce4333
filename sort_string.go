package gotables

import (
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Names of the string sort types.
const (
	SortString        = "string"
	SortChineseString = "chinese-string"
	SortTurkishString = "turkish-string"
	SortPersian       = "persian"
	SortAltString     = "alt-string"
	SortAntiThe       = "anti-the"
	SortNatural       = "natural"
)

// collatorPool hands out collators for one language. collate.Collator keeps
// internal buffers and must not be shared between goroutines.
type collatorPool struct {
	pool sync.Pool
}

func newCollatorPool(tag language.Tag) *collatorPool {
	return &collatorPool{
		pool: sync.Pool{
			New: func() any {
				return collate.New(tag)
			},
		},
	}
}

func (p *collatorPool) compare(a, b string) int {
	c := p.pool.Get().(*collate.Collator)
	defer p.pool.Put(c)

	return c.CompareString(a, b)
}

// NewLocaleStringComparator orders cells with the collation rules of tag.
func NewLocaleStringComparator(name string, tag language.Tag) *Comparator[string] {
	return NewStringComparator(name, newCollatorPool(tag).compare)
}

// NewAntiTheComparator orders cells lexicographically, ignoring a leading
// "the " in any letter case.
func NewAntiTheComparator() *Comparator[string] {
	return NewComparator(SortAntiThe, stripLeadingThe, CompareStrings)
}

func stripLeadingThe(raw string) string {
	const article = "the "
	if len(raw) >= len(article) && strings.EqualFold(raw[:len(article)], article) {
		return raw[len(article):]
	}

	return raw
}

var _altAttribute = regexp.MustCompile(`alt="(.*?)"`)

// NewAltStringComparator orders cells holding markup such as images by the
// value of their alt attribute, case-insensitively. Cells without an alt
// attribute are ordered by their whole content.
func NewAltStringComparator() *Comparator[string] {
	return NewComparator(SortAltString, altText, CompareStrings)
}

func altText(raw string) string {
	if match := _altAttribute.FindStringSubmatch(raw); match != nil {
		return strings.ToLower(match[1])
	}

	return strings.ToLower(raw)
}

// NewNaturalComparator orders cells so that runs of digits compare by their
// numeric value: "row 2" < "row 10".
func NewNaturalComparator() *Comparator[string] {
	return NewStringComparator(SortNatural, compareNatural)
}

// compareNatural splits both strings into digit and non-digit chunks and
// compares them pairwise. Strings with equal chunks ("a01" and "a1") fall back
// to byte order so the result stays a total order.
func compareNatural(a, b string) int {
	ia, ib := 0, 0
	for ia < len(a) && ib < len(b) {
		chunkA, nextA := nextChunk(a, ia)
		chunkB, nextB := nextChunk(b, ib)

		var cmp int
		if isDigit(chunkA[0]) && isDigit(chunkB[0]) {
			cmp = compareDigits(chunkA, chunkB)
		} else {
			cmp = strings.Compare(chunkA, chunkB)
		}
		if cmp != 0 {
			return cmp
		}

		ia, ib = nextA, nextB
	}

	switch {
	case ia < len(a):
		return 1
	case ib < len(b):
		return -1
	}

	return strings.Compare(a, b)
}

func nextChunk(s string, i int) (string, int) {
	digits := isDigit(s[i])
	j := i + 1
	for j < len(s) && isDigit(s[j]) == digits {
		j++
	}

	return s[i:j], j
}

// compareDigits compares two digit runs by value without parsing them, so
// arbitrarily long runs cannot overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return CompareNumbers(float64(len(a)), float64(len(b)))
	}

	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
