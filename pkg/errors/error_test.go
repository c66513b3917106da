package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNew() {
	err := New(ErrCodeInvalidConfiguration, "asset list is empty")
	suite.Equal(ErrCodeInvalidConfiguration, err.Code)
	suite.Equal("asset list is empty", err.Message)
	suite.Nil(err.Cause)
	suite.Equal("[101] asset list is empty", err.Error())
}

func (suite *ErrorTestSuite) TestNewf() {
	err := Newf(ErrCodeUnknownAsset, "unknown asset %s", "BTCUSDT")
	suite.Equal("unknown asset BTCUSDT", err.Message)
}

func (suite *ErrorTestSuite) TestWrap() {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeMarketDataFetchFailed, "fetch latest prices", cause)
	suite.Equal(cause, err.Unwrap())
	suite.Equal("[700] fetch latest prices: connection refused", err.Error())
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestWrapf() {
	cause := errors.New("no such file")
	err := Wrapf(ErrCodeConfigNotFound, cause, "read %q", "tracker.yaml")
	suite.Equal(`read "tracker.yaml"`, err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestGetCode() {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"coded error", New(ErrCodeOrderRejected, "rejected"), ErrCodeOrderRejected},
		{"outermost code wins", Wrap(ErrCodeEngineInitFailed, "init", New(ErrCodeDataNotFound, "missing")), ErrCodeEngineInitFailed},
		{"coded error behind fmt wrap", fmt.Errorf("ctx: %w", New(ErrCodeMissingAPIKey, "key")), ErrCodeMissingAPIKey},
		{"plain error", errors.New("plain"), ErrCodeUnknown},
		{"nil", nil, ErrCodeUnknown},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, GetCode(tc.err))
		})
	}
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeInvalidThreshold, "buy threshold above sell threshold")
	suite.True(HasCode(err, ErrCodeInvalidThreshold))
	suite.False(HasCode(err, ErrCodeInvalidPeriod))
}

func (suite *ErrorTestSuite) TestAs() {
	err := fmt.Errorf("load: %w", New(ErrCodeConfigParseFailed, "bad yaml"))

	var coded *Error
	suite.True(As(err, &coded))
	suite.Equal(ErrCodeConfigParseFailed, coded.Code)
}

func (suite *ErrorTestSuite) TestErrorCodeRanges() {
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidParameter)
	suite.Equal(ErrorCode(200), ErrCodeDataNotFound)
	suite.Equal(ErrorCode(300), ErrCodeIndicatorNotReady)
	suite.Equal(ErrorCode(400), ErrCodeUnsupportedStrategy)
	suite.Equal(ErrorCode(500), ErrCodeOrderRejected)
	suite.Equal(ErrorCode(600), ErrCodeEngineInitFailed)
	suite.Equal(ErrorCode(700), ErrCodeMarketDataFetchFailed)
	suite.Equal(ErrorCode(800), ErrCodeCallbackFailed)
}

func (suite *ErrorTestSuite) TestValidationError() {
	single := NewValidationError("rsiPeriod must be > 0")
	suite.Equal("invalid configuration: rsiPeriod must be > 0", single.Error())

	multi := NewValidationError("a", "b")
	suite.Contains(multi.Error(), "2 problems")

	wrapped := Wrap(ErrCodeInvalidConfiguration, "validate", multi)
	suite.True(IsValidationError(wrapped))
	suite.False(IsValidationError(errors.New("plain")))
	suite.False(IsValidationError(nil))
}
