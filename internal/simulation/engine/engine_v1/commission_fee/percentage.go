package commission_fee

// PercentageCommissionFee charges a fixed fraction of the gross notional.
type PercentageCommissionFee struct {
	Pct float64
}

func NewPercentageCommissionFee(pct float64) CommissionFee {
	return &PercentageCommissionFee{Pct: pct}
}

func (c *PercentageCommissionFee) Calculate(executionPrice float64, quantity float64) float64 {
	if quantity <= 0 || executionPrice <= 0 {
		return 0
	}

	return executionPrice * quantity * c.Pct
}
