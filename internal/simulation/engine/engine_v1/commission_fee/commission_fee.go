package commission_fee

type CommissionFee interface {
	// Calculate returns the commission charged on quantity units filled at executionPrice
	Calculate(executionPrice float64, quantity float64) float64
}

type Broker string

const (
	BrokerPercentage Broker = "percentage"
	BrokerZero       Broker = "zero_commission"
)

var AllBrokers = []any{
	BrokerPercentage,
	BrokerZero,
}

// GetCommissionFeeHandler returns the fee model for broker. pct is only used
// by the percentage model.
func GetCommissionFeeHandler(broker Broker, pct float64) CommissionFee {
	switch broker {
	case BrokerPercentage:
		return NewPercentageCommissionFee(pct)
	case BrokerZero:
		return NewZeroCommissionFee()
	default:
		return NewZeroCommissionFee()
	}
}

// ForPct picks the percentage model for a positive pct and the zero model otherwise.
func ForPct(pct float64) CommissionFee {
	if pct > 0 {
		return GetCommissionFeeHandler(BrokerPercentage, pct)
	}

	return GetCommissionFeeHandler(BrokerZero, 0)
}
