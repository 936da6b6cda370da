package client

import (
	"github.com/walico/walico-backend/internal/calculator"
)

// RatioInput builds a CreateInput from a receipt total and the payer's own
// share percentage. The ratio is snapped to the nearest multiple of 10
// before the request amount is derived.
func RatioInput(storeName *string, total, selfRatio int) (CreateInput, error) {
	request, err := calculator.Ratio(total, calculator.SnapRatio(selfRatio))
	if err != nil {
		return CreateInput{}, err
	}
	return CreateInput{
		StoreName:     storeName,
		TotalAmount:   total,
		RequestAmount: request,
	}, nil
}

// ItemizedInput builds a CreateInput from assigned line items. The request
// amount and total are derived from the valid items only; the items ride
// along so the counterpart can see the breakdown.
func ItemizedInput(storeName *string, items []LineItem) (CreateInput, error) {
	request, total, err := calculator.Itemized(toDomainItems(items))
	if err != nil {
		return CreateInput{}, err
	}
	return CreateInput{
		StoreName:     storeName,
		TotalAmount:   total,
		RequestAmount: request,
		Items:         items,
	}, nil
}
