package utils

import (
	"math"

	"github.com/rxtech-lab/argo-tracker/internal/simulation/engine/engine_v1/commission_fee"
)

// QuantityPrecision is the number of decimals order quantities are floored to.
const QuantityPrecision = 8

// CalculateMaxQuantity returns the largest quantity whose cost at price,
// commission included, fits in balance.
func CalculateMaxQuantity(balance float64, price float64, commissionFee commission_fee.CommissionFee) float64 {
	if price <= 0 || balance <= 0 {
		return 0
	}

	// Initial rough estimate (ignoring fees)
	maxQty := balance / price

	// Iteratively refine by accounting for fees
	for i := 0; i < 10; i++ {
		totalCost := maxQty*price + commissionFee.Calculate(price, maxQty)
		if totalCost <= balance {
			break
		}

		maxQty *= balance / totalCost
	}

	return RoundToDecimalPrecision(maxQty, QuantityPrecision)
}

// RoundToDecimalPrecision floors quantity to decimalPrecision decimals.
func RoundToDecimalPrecision(quantity float64, decimalPrecision int) float64 {
	multiplier := math.Pow10(decimalPrecision)

	return math.Floor(quantity*multiplier) / multiplier
}

// CalculateOrderQuantityByPercentage sizes a buy that spends percentage of balance.
func CalculateOrderQuantityByPercentage(balance float64, price float64, commissionFee commission_fee.CommissionFee, percentage float64) float64 {
	return CalculateMaxQuantity(balance*percentage, price, commissionFee)
}

// ApproxZero reports whether v is within epsilon of zero.
func ApproxZero(v float64, epsilon float64) bool {
	return math.Abs(v) <= epsilon
}
