package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is an inclusive selection of attribute indices given as a
// comma-separated list of 1-based indices and index spans, e.g.
// "first-last", "1-5", "2-4,6,8-last". The keywords "first" and "last"
// resolve against the attribute count supplied via SetUpper.
type Range struct {
	spec     string
	upper    int // highest valid 0-based index, -1 until SetUpper
	selected []bool
}

// AllAttributes selects every attribute.
const AllAttributes = "first-last"

// NewRange creates a range from its textual specification. An empty spec
// selects all attributes. The spec is validated when SetUpper is called.
func NewRange(spec string) *Range {
	if strings.TrimSpace(spec) == "" {
		spec = AllAttributes
	}
	return &Range{spec: spec, upper: -1}
}

// String returns the textual specification.
func (r *Range) String() string {
	return r.spec
}

// SetUpper resolves the range against a schema of n attributes.
// It must be called before IsInRange.
func (r *Range) SetUpper(n int) error {
	if n <= 0 {
		return fmt.Errorf("range %q: attribute count must be positive, got %d", r.spec, n)
	}
	r.upper = n - 1
	r.selected = make([]bool, n)

	for _, part := range strings.Split(r.spec, ",") {
		part = strings.TrimSpace(part)
		lo, hi, err := r.parsePart(part)
		if err != nil {
			return err
		}
		if lo > hi || lo < 0 || hi > r.upper {
			return fmt.Errorf("range %q: span %q out of bounds for %d attribute(s)", r.spec, part, n)
		}
		for i := lo; i <= hi; i++ {
			r.selected[i] = true
		}
	}
	return nil
}

// IsInRange reports whether the 0-based attribute index i is selected.
// It returns false for any index when SetUpper has not been called.
func (r *Range) IsInRange(i int) bool {
	if r.selected == nil || i < 0 || i >= len(r.selected) {
		return false
	}
	return r.selected[i]
}

// parsePart parses a single span ("3", "first", "2-last") into a 0-based
// inclusive index pair.
func (r *Range) parsePart(part string) (lo, hi int, err error) {
	if idx := strings.Index(part, "-"); idx >= 0 {
		lo, err = r.parseIndex(part[:idx])
		if err != nil {
			return 0, 0, err
		}
		hi, err = r.parseIndex(part[idx+1:])
		if err != nil {
			return 0, 0, err
		}
		return lo, hi, nil
	}
	lo, err = r.parseIndex(part)
	return lo, lo, err
}

func (r *Range) parseIndex(s string) (int, error) {
	switch strings.TrimSpace(s) {
	case "first":
		return 0, nil
	case "last":
		return r.upper, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("range %q: invalid index %q", r.spec, s)
	}
	// external indices are 1-based
	return v - 1, nil
}
