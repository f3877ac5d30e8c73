package entry

import (
	"strings"

	"github.com/shopspring/decimal"

	"folha/internal/apperr"
)

// Classify normalizes an incoming entry into exactly one of the three
// kinds and enforces the creation invariants that do not need the store:
// the service/description exclusivity, the forced quantity of one for
// gratifications, and the observation rule. Observations keep their inner
// whitespace untouched.
func Classify(in Input) (Input, error) {
	switch {
	case in.ServiceID != nil:
		if in.Kind != "" && in.Kind != KindService {
			return in, apperr.Validation("entry with a service cannot be classified as %s", in.Kind)
		}
		if strings.TrimSpace(in.Description) != "" {
			return in, apperr.Validation("a service entry cannot carry a diverse description")
		}
		in.Kind = KindService
		in.Description = ""

	case in.Kind == KindGratification || strings.HasPrefix(in.Description, GratificationPrefix):
		label := strings.TrimPrefix(in.Description, GratificationPrefix)
		label = strings.TrimLeft(label, " ")
		if strings.TrimSpace(label) == "" {
			return in, apperr.Validation("gratification label is required")
		}
		in.Kind = KindGratification
		in.Description = label
		in.Quantity = decimal.NewFromInt(1)

	default:
		if strings.TrimSpace(in.Description) == "" {
			return in, apperr.Validation("entry requires a service or a diverse description")
		}
		if in.Kind != "" && in.Kind != KindDiverse {
			return in, apperr.Validation("entry with a description cannot be classified as %s", in.Kind)
		}
		in.Kind = KindDiverse
	}

	if in.Quantity.IsNegative() {
		return in, apperr.Validation("quantity must not be negative")
	}
	if in.UnitValue.IsNegative() {
		return in, apperr.Validation("unit value must not be negative")
	}
	if in.Kind != KindGratification && !in.Quantity.IsPositive() && in.UnitValue.IsPositive() {
		return in, apperr.Validation("an entry with a value requires a positive quantity")
	}
	if in.Quantity.Mul(in.UnitValue).IsPositive() && strings.TrimSpace(in.Observation) == "" {
		return in, apperr.Validation("observation is required for entries with a value")
	}
	return in, nil
}
