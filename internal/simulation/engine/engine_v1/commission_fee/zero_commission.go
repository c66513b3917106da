package commission_fee

type ZeroCommissionFee struct{}

func NewZeroCommissionFee() CommissionFee {
	return &ZeroCommissionFee{}
}

func (c *ZeroCommissionFee) Calculate(executionPrice float64, quantity float64) float64 {
	return 0
}
