package decode

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrUnrecognizedCode = errors.New("unrecognized code")
	ErrCardinality      = errors.New("meal item cardinality violation")
	ErrMalformedPattern = errors.New("malformed pattern")
	ErrDeletedEntry     = errors.New("deleted entry")
)

// CodeError reports a value outside a closed code table. Value is nil when
// the entry carried no value at all.
type CodeError struct {
	Table string
	Value *float64
}

func (e *CodeError) Error() string {
	v := "<absent>"
	if e.Value != nil {
		v = strconv.FormatFloat(*e.Value, 'g', -1, 64)
	}
	return fmt.Sprintf("%s: %s value %s", ErrUnrecognizedCode, e.Table, v)
}

func (e *CodeError) Is(target error) bool { return target == ErrUnrecognizedCode }

// CardinalityError reports a food entry without exactly one meal item.
type CardinalityError struct {
	Count int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("%s: expected exactly 1 meal item, got %d", ErrCardinality, e.Count)
}

func (e *CardinalityError) Is(target error) bool { return target == ErrCardinality }

// PatternError reports text that carries a recognized prefix but does not
// follow the expected structure.
type PatternError struct {
	Text   string
	Reason string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s: %s in %q", ErrMalformedPattern, e.Reason, e.Text)
}

func (e *PatternError) Is(target error) bool { return target == ErrMalformedPattern }
