package indicator

import "github.com/rxtech-lab/argo-tracker/pkg/errors"

var (
	errConfigArity = errors.New(errors.ErrCodeInvalidPeriod, "Config expects 1 parameter: period (int)")
	errPeriodType  = errors.New(errors.ErrCodeInvalidPeriod, "invalid type for period parameter, expected int or float")
)

func invalidPeriod(period int) error {
	return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
}
