// Package validate holds the record-level business rules: single-transaction
// validation and product profit metrics.
//
// Transactions are modeled as a typed record with optional fields (pointers)
// rather than a loose map, and validation returns a tagged result instead of
// raising, so callers can distinguish "invalid input" from "engine failure".
package validate

import (
	"errors"
	"fmt"
	"math"
)

// Transaction is one sales transaction as it appears in the input feed.
// Nil fields were absent from the source record.
type Transaction struct {
	TransactionID *string
	Date          *string
	ProductID     *string
	CustomerID    *string
	Quantity      *float64
	UnitPrice     *float64
	TotalAmount   *float64
}

// Result is the outcome of validating one transaction.
// Errors make the record invalid; warnings do not.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// amountTolerance is the allowed drift between quantity*unit_price and
// total_amount before a mismatch warning fires.
const amountTolerance = 0.01

// Str returns a pointer to s, for building Transaction literals.
func Str(s string) *string { return &s }

// Num returns a pointer to f, for building Transaction literals.
func Num(f float64) *float64 { return &f }

// Check validates a single transaction record.
//
// Rules:
//   - all seven fields are required; each missing field is an error
//   - quantity and unit_price must be positive when present
//   - if quantity, unit_price and total_amount are all present and
//     quantity*unit_price drifts from total_amount by more than 0.01,
//     a warning (not an error) is recorded
func Check(tx Transaction) Result {
	res := Result{Valid: true}

	required := []struct {
		name string
		ok   bool
	}{
		{name: "transaction_id", ok: tx.TransactionID != nil},
		{name: "date", ok: tx.Date != nil},
		{name: "product_id", ok: tx.ProductID != nil},
		{name: "customer_id", ok: tx.CustomerID != nil},
		{name: "quantity", ok: tx.Quantity != nil},
		{name: "unit_price", ok: tx.UnitPrice != nil},
		{name: "total_amount", ok: tx.TotalAmount != nil},
	}
	for _, f := range required {
		if !f.ok {
			res.Errors = append(res.Errors, "missing required field: "+f.name)
			res.Valid = false
		}
	}

	if tx.Quantity != nil && *tx.Quantity <= 0 {
		res.Errors = append(res.Errors, "quantity must be a positive number")
		res.Valid = false
	}
	if tx.UnitPrice != nil && *tx.UnitPrice <= 0 {
		res.Errors = append(res.Errors, "unit price must be a positive number")
		res.Valid = false
	}

	if tx.Quantity != nil && tx.UnitPrice != nil && tx.TotalAmount != nil {
		expected := *tx.Quantity * *tx.UnitPrice
		if math.Abs(expected-*tx.TotalAmount) > amountTolerance {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("total amount mismatch: expected %g, got %g", expected, *tx.TotalAmount))
		}
	}

	return res
}

// ProfitMetrics summarizes the economics of selling quantity units of a
// product at price with the given unit cost. Values are rounded to cents.
type ProfitMetrics struct {
	ProfitPerUnit    float64
	MarginPercentage float64
	TotalRevenue     float64
	TotalProfit      float64
	CostRatio        float64
}

// ErrInvalidPricing is returned when price or cost violate the domain rules.
var ErrInvalidPricing = errors.New("price must be positive, cost must be non-negative")

// Profit computes profit metrics for a product.
//
// Errors:
//   - price <= 0 or cost < 0 returns ErrInvalidPricing.
func Profit(price, cost float64, quantity int) (ProfitMetrics, error) {
	if price <= 0 || cost < 0 {
		return ProfitMetrics{}, ErrInvalidPricing
	}

	profitPerUnit := price - cost
	q := float64(quantity)

	return ProfitMetrics{
		ProfitPerUnit:    round2(profitPerUnit),
		MarginPercentage: round2(profitPerUnit / price * 100),
		TotalRevenue:     round2(price * q),
		TotalProfit:      round2(profitPerUnit * q),
		CostRatio:        round2(cost / price * 100),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
