// Package calculator implements the pure split-calculation engine: turning a
// bill total and a split policy into the amount billed to the counterpart.
//
// All amounts are whole yen. The canonical rounding rule is round-half-up;
// every path through the calculator uses it.
package calculator

import (
	"github.com/walico/walico-backend/internal/domain"
)

// halfUp returns numerator/denominator rounded half-up.
// Both arguments must be non-negative and denominator non-zero.
func halfUp(numerator, denominator int) int {
	return (numerator + denominator/2) / denominator
}

// Ratio computes the counterpart's share of total using a percentage policy.
// selfRatio is the percentage the payer keeps, in [0, 100]:
//
//	request = round(total × (100 − selfRatio) / 100)
//
// The result is always within [0, total].
func Ratio(total, selfRatio int) (int, error) {
	var errs []domain.FieldError
	if total < 0 {
		errs = append(errs, domain.FieldError{Field: "total", Message: "must be non-negative"})
	}
	if selfRatio < 0 || selfRatio > 100 {
		errs = append(errs, domain.FieldError{Field: "self_ratio", Message: "must be between 0 and 100"})
	}
	if len(errs) > 0 {
		return 0, &domain.ValidationError{Errors: errs}
	}

	return halfUp(total*(100-selfRatio), 100), nil
}

// SnapRatio clamps ratio to [0, 100] and snaps it to the nearest multiple
// of 10. Input surfaces call this before Ratio; the calculator itself only
// range-checks.
func SnapRatio(ratio int) int {
	snapped := halfUp(ratio, 10) * 10
	if snapped < 0 {
		return 0
	}
	if snapped > 100 {
		return 100
	}
	return snapped
}

// Itemized computes the counterpart's share from per-item assignments:
// "other" contributes the full price, "split" contributes half (rounded
// half-up), "self" contributes nothing. Items that are not valid (empty
// name or non-positive price) are excluded from both sums. The derived
// total is the sum of valid item prices and overrides any independently
// entered total.
func Itemized(items []domain.LineItem) (request, derivedTotal int, err error) {
	for _, item := range items {
		if item.Price < 0 {
			return 0, 0, domain.NewValidationError("items", "price must be non-negative")
		}
		if !item.Valid() {
			continue
		}

		derivedTotal += item.Price
		switch item.Assignment.Normalize() {
		case domain.AssignmentOther:
			request += item.Price
		case domain.AssignmentSplit:
			request += halfUp(item.Price*50, 100)
		case domain.AssignmentSelf:
			// payer keeps it
		default:
			return 0, 0, domain.NewValidationError("items", "unknown assignment")
		}
	}

	return request, derivedTotal, nil
}
