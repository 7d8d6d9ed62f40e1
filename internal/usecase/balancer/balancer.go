package balancer

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cpisim/cpisim-backend/internal/domain"
)

var (
	// ErrUnknownCouncil is returned when a value is set for a council
	// outside the fixed set of seven.
	ErrUnknownCouncil = errors.New("unknown council")

	// ErrMultipleDecimalPoints is returned when the sanitized input
	// still contains more than one decimal point.
	ErrMultipleDecimalPoints = errors.New("value must contain at most one decimal point")

	// ErrValueTooLarge is returned when the input parses to a value
	// above 100.
	ErrValueTooLarge = errors.New("value must not exceed 100")

	// ErrTooPrecise is returned when the input carries more than two
	// decimal places.
	ErrTooPrecise = errors.New("value must have at most two decimal places")
)

var hundred = decimal.NewFromInt(100)

// defaultValues is the distribution the editing session starts from.
var defaultValues = map[domain.Council]string{
	domain.CouncilTokenHouse:         "32.33",
	domain.CouncilCitizenHouse:       "34.59",
	domain.CouncilGrantsCouncil:      "10.15",
	domain.CouncilGrantsSubcommittee: "2.82",
	domain.CouncilSecurityCouncil:    "12.78",
	domain.CouncilCodeOfConduct:      "4.32",
	domain.CouncilDevAdvisoryBoard:   "3.01",
}

// Balancer maintains the percentage editing session for the seven
// councils. Values are stored as sanitized strings, not numbers, so
// in-progress typing states such as a trailing decimal point survive
// between edits. The Balancer is the sole mutator of its map; it is
// not safe for concurrent use.
type Balancer struct {
	values map[domain.Council]string
}

// New creates a Balancer seeded with the default distribution.
func New() *Balancer {
	values := make(map[domain.Council]string, len(defaultValues))
	for c, v := range defaultValues {
		values[c] = v
	}
	return &Balancer{values: values}
}

// Value returns the stored (possibly in-progress) string for a council.
func (b *Balancer) Value(council domain.Council) string {
	return b.values[council]
}

// Values returns a copy of the current council -> value map.
func (b *Balancer) Values() map[domain.Council]string {
	values := make(map[domain.Council]string, len(b.values))
	for c, v := range b.values {
		values[c] = v
	}
	return values
}

// SetValue sanitizes raw input and stores it for the council.
// Sanitization keeps only digits and decimal points. Input is rejected
// (stored value unchanged) when it still contains more than one
// decimal point, more than two decimal places, or parses to a value
// above 100. An empty string clears the field.
func (b *Balancer) SetValue(council domain.Council, raw string) error {
	if !council.Valid() {
		return ErrUnknownCouncil
	}

	sanitized := sanitize(raw)
	if strings.Count(sanitized, ".") > 1 {
		return ErrMultipleDecimalPoints
	}
	if dot := strings.Index(sanitized, "."); dot >= 0 && len(sanitized)-dot-1 > 2 {
		return ErrTooPrecise
	}
	if value, ok := parse(sanitized); ok && value.GreaterThan(hundred) {
		return ErrValueTooLarge
	}

	b.values[council] = sanitized
	return nil
}

// Total sums all parseable values, rounded to 2 decimal places.
// Empty or unparseable fields count as 0.
func (b *Balancer) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b.values {
		if value, ok := parse(v); ok {
			total = total.Add(value)
		}
	}
	return total.Round(2)
}

// Remaining returns how far the current total is from 100. Negative
// when the total exceeds 100.
func (b *Balancer) Remaining() decimal.Decimal {
	return hundred.Sub(b.Total())
}

// TryAutoBalance completes the single remaining empty field with
// 100 - Total(), formatted without decimals when integral.
// It reports whether it adjusted anything. This is the sole automatic
// completion rule: it never overwrites a non-empty field, is a no-op
// when the total has already reached 100, and is a no-op when more
// than one field is empty.
func (b *Balancer) TryAutoBalance() bool {
	total := b.Total()
	if total.GreaterThanOrEqual(hundred) {
		return false
	}

	var empty []domain.Council
	for _, c := range domain.Councils() {
		if b.values[c] == "" {
			empty = append(empty, c)
		}
	}
	if len(empty) != 1 {
		return false
	}

	b.values[empty[0]] = formatValue(hundred.Sub(total))
	return true
}

// ReadyToSubmit reports whether the session may be submitted: the
// total must equal 100.00 exactly (no tolerance) and no submission
// may be in flight.
func (b *Balancer) ReadyToSubmit(inFlight bool) bool {
	return !inFlight && b.Total().Equal(hundred)
}

// Snapshot parses every field into a complete Distribution for
// submission. It independently re-checks that every council's value is
// a number in [0, 100]; failing any one returns a ValidationError
// naming all offending councils.
func (b *Balancer) Snapshot() (domain.Distribution, error) {
	dist := make(domain.Distribution, len(b.values))
	var invalid []domain.Council

	for _, c := range domain.Councils() {
		value, ok := parse(b.values[c])
		if !ok || value.LessThan(decimal.Zero) || value.GreaterThan(hundred) {
			invalid = append(invalid, c)
			continue
		}
		dist[c] = value
	}

	if len(invalid) > 0 {
		return nil, &domain.ValidationError{Councils: invalid}
	}
	return dist, nil
}

// sanitize strips everything except digits and decimal points.
func sanitize(raw string) string {
	var sb strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// parse converts a stored string to a decimal. A trailing decimal
// point (an in-progress typing state) is tolerated. The second return
// is false for empty or unparseable input.
func parse(s string) (decimal.Decimal, bool) {
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

// formatValue renders a decimal without trailing zeros when integral,
// otherwise with two decimal places.
func formatValue(value decimal.Decimal) string {
	if value.IsInteger() {
		return value.String()
	}
	return value.StringFixed(2)
}
