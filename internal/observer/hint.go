package observer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/tensorview/internal/tensor"
)

// Wildcard is the hint token standing for "whatever extent makes the
// element count match".
const Wildcard = "*"

// wildcardToken marks the wildcard position in DimensionHint.tokens.
const wildcardToken = -1

// ErrMultipleWildcards is reported when a hint contains more than one wildcard.
var ErrMultipleWildcards = errors.New("at most one wildcard is allowed")

// DimensionHint is a user supplied reshape instruction such as "2, 3, *".
//
// The zero value is the empty hint, which applies to nothing.
type DimensionHint struct {
	tokens []int
	source string
	err    error
}

// EmptyDimensionHint is the no-op hint.
var EmptyDimensionHint = DimensionHint{}

// ParseDimensionHint parses a comma separated list of positive extents with
// at most one "*". It never fails: malformed text yields an inapplicable hint
// whose Err reports the problem and which behaves like the empty hint.
func ParseDimensionHint(text string) DimensionHint {
	if strings.TrimSpace(text) == "" {
		return EmptyDimensionHint
	}

	parts := strings.Split(text, ",")
	tokens := make([]int, 0, len(parts))
	wildcards := 0

	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == Wildcard {
			wildcards++
			if wildcards > 1 {
				return DimensionHint{source: text, err: ErrMultipleWildcards}
			}
			tokens = append(tokens, wildcardToken)
			continue
		}

		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return DimensionHint{
				source: text,
				err:    fmt.Errorf("token %d (%q) is neither a positive integer nor %q", i+1, part, Wildcard),
			}
		}
		tokens = append(tokens, n)
	}

	return DimensionHint{tokens: tokens, source: text}
}

// IsEmpty reports whether the hint carries no usable tokens. Inapplicable
// hints are empty.
func (h DimensionHint) IsEmpty() bool {
	return len(h.tokens) == 0
}

// Err returns the parse error of an inapplicable hint.
func (h DimensionHint) Err() error {
	return h.err
}

// Source returns the text the hint was parsed from.
func (h DimensionHint) Source() string {
	return h.source
}

// String prints the hint in normalized form ("2, 3, *"). Inapplicable hints
// print their source so the user's text survives a round-trip.
func (h DimensionHint) String() string {
	if h.err != nil {
		return h.source
	}
	parts := make([]string, len(h.tokens))
	for i, tok := range h.tokens {
		if tok == wildcardToken {
			parts[i] = Wildcard
		} else {
			parts[i] = strconv.Itoa(tok)
		}
	}
	return strings.Join(parts, ", ")
}

// Equal compares the parsed tokens of two hints.
func (h DimensionHint) Equal(other DimensionHint) bool {
	if len(h.tokens) != len(other.tokens) {
		return false
	}
	for i := range h.tokens {
		if h.tokens[i] != other.tokens[i] {
			return false
		}
	}
	return true
}

// TryApply reshapes shape according to the hint. It succeeds when the
// explicit extents multiply to the element count, or divide it evenly when a
// wildcard is present. Extents whose product exceeds the element count never
// apply. On failure the original shape is returned.
func (h DimensionHint) TryApply(shape tensor.Shape) (tensor.Shape, bool) {
	if h.IsEmpty() || shape.IsEmpty() {
		return shape, false
	}

	count := shape.ElementCount()
	product := 1
	wildcardAt := -1
	for i, tok := range h.tokens {
		if tok == wildcardToken {
			wildcardAt = i
			continue
		}
		// Extents are positive, so a product above count can never match and
		// stopping here keeps the multiplication from wrapping around.
		if tok > count/product {
			return shape, false
		}
		product *= tok
	}

	adjusted := make(tensor.Shape, len(h.tokens))
	copy(adjusted, h.tokens)

	if wildcardAt >= 0 {
		if count%product != 0 {
			return shape, false
		}
		adjusted[wildcardAt] = count / product
		return adjusted, true
	}

	if product != count {
		return shape, false
	}
	return adjusted, true
}
