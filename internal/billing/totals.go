package billing

import (
	"strconv"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeTotals derives the full set of monetary totals for a billing
// document. It is pure: the items slice is treated as a read-only snapshot,
// each item's total is recomputed from quantity and unit price, and the same
// inputs always produce the same outputs.
//
// The discount amount is subtracted before tax; the taxable amount is
// clamped at zero so an over-large discount can never produce a negative tax
// base or a negative grand total.
func ComputeTotals(items []LineItem, taxRatePercent, discount decimal.Decimal, discountType DiscountType) (Totals, error) {
	if !discountType.Valid() {
		return Totals{}, &ValidationError{Field: "discount_type", Message: "must be percentage or fixed"}
	}
	if taxRatePercent.IsNegative() {
		return Totals{}, &ValidationError{Field: "tax_rate", Message: "must not be negative"}
	}
	if discount.IsNegative() {
		return Totals{}, &ValidationError{Field: "discount", Message: "must not be negative"}
	}

	subtotal := decimal.Zero
	for i, item := range items {
		if item.Quantity.IsNegative() {
			return Totals{}, &ValidationError{Field: "items", Message: itemField(i, "quantity must not be negative")}
		}
		if item.UnitPrice.IsNegative() {
			return Totals{}, &ValidationError{Field: "items", Message: itemField(i, "unit price must not be negative")}
		}
		subtotal = subtotal.Add(item.Quantity.Mul(item.UnitPrice))
	}

	var discountAmount decimal.Decimal
	if discountType == DiscountPercentage {
		discountAmount = subtotal.Mul(discount).Div(oneHundred)
	} else {
		discountAmount = discount
	}

	taxable := subtotal.Sub(discountAmount)
	if taxable.IsNegative() {
		// Discount exceeds subtotal; the effective discount is the whole
		// subtotal and everything downstream is zero.
		discountAmount = subtotal
		taxable = decimal.Zero
	}

	tax := taxable.Mul(taxRatePercent).Div(oneHundred)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxable,
		Tax:            tax,
		Total:          taxable.Add(tax),
	}, nil
}

// PriceItems returns a copy of items with each total recomputed. Callers use
// it to echo consistent line totals back to the API without mutating the
// caller-owned slice.
func PriceItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, item := range items {
		item.Total = item.Quantity.Mul(item.UnitPrice)
		out[i] = item
	}
	return out
}

func itemField(i int, msg string) string {
	return "item " + strconv.Itoa(i) + ": " + msg
}
