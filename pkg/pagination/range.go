package pagination

import (
	"errors"
	"fmt"
	"strconv"
)

// Range validation errors.
var (
	// ErrNotInteger is returned when a bound cannot be parsed as an integer.
	ErrNotInteger = errors.New("id value is not an integer")

	// ErrNegativeID is returned when either bound is below zero.
	ErrNegativeID = errors.New("id values must be non-negative")

	// ErrInvertedRange is returned when the minimum exceeds the maximum.
	ErrInvertedRange = errors.New("minimal id must be less than or equal to maximal id")
)

// Range is an inclusive id filter.
type Range struct {
	MinID int
	MaxID int
}

// NewRange validates the bounds and returns the range.
func NewRange(minID, maxID int) (Range, error) {
	r := Range{MinID: minID, MaxID: maxID}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// ParseRange parses textual bounds, e.g. command line arguments.
func ParseRange(minArg, maxArg string) (Range, error) {
	minID, err := strconv.Atoi(minArg)
	if err != nil {
		return Range{}, fmt.Errorf("minimal %w: %q", ErrNotInteger, minArg)
	}
	maxID, err := strconv.Atoi(maxArg)
	if err != nil {
		return Range{}, fmt.Errorf("maximal %w: %q", ErrNotInteger, maxArg)
	}
	return NewRange(minID, maxID)
}

// Validate checks that both bounds are non-negative and ordered.
func (r Range) Validate() error {
	if r.MinID < 0 || r.MaxID < 0 {
		return fmt.Errorf("%w (got %d, %d)", ErrNegativeID, r.MinID, r.MaxID)
	}
	if r.MinID > r.MaxID {
		return fmt.Errorf("%w (got %d > %d)", ErrInvertedRange, r.MinID, r.MaxID)
	}
	return nil
}

// Contains reports whether id lies within the range, bounds included.
func (r Range) Contains(id int) bool {
	return r.MinID <= id && id <= r.MaxID
}

// validationReason maps a validation error to its metric label.
func validationReason(err error) string {
	switch {
	case errors.Is(err, ErrNotInteger):
		return "not_integer"
	case errors.Is(err, ErrNegativeID):
		return "negative"
	case errors.Is(err, ErrInvertedRange):
		return "inverted"
	default:
		return "unknown"
	}
}
