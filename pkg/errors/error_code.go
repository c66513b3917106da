package errors

// ErrorCode identifies a class of failure.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeInvalidThreshold     ErrorCode = 103
	ErrCodeInvalidAssetList     ErrorCode = 104
	ErrCodeInvalidVersion       ErrorCode = 105
	ErrCodeConfigNotFound       ErrorCode = 106
	ErrCodeConfigParseFailed    ErrorCode = 107

	// Data errors (200-299)
	ErrCodeDataNotFound       ErrorCode = 200
	ErrCodeQueryFailed        ErrorCode = 201
	ErrCodeWriterNotReady     ErrorCode = 202
	ErrCodeOutputPathError    ErrorCode = 203
	ErrCodeExportFailed       ErrorCode = 204
	ErrCodeHistoryUnavailable ErrorCode = 205

	// Indicator errors (300-399)
	ErrCodeIndicatorNotReady    ErrorCode = 300
	ErrCodeIndicatorCalculation ErrorCode = 301

	// Strategy errors (400-499)
	ErrCodeUnsupportedStrategy ErrorCode = 400
	ErrCodeStrategyConfigError ErrorCode = 401

	// Execution errors (500-599)
	ErrCodeOrderRejected    ErrorCode = 500
	ErrCodeUnknownAsset     ErrorCode = 501
	ErrCodeUnknownReason    ErrorCode = 502
	ErrCodeMissingTickPrice ErrorCode = 503

	// Simulation errors (600-699)
	ErrCodeEngineInitFailed    ErrorCode = 600
	ErrCodeEngineAlreadyRan    ErrorCode = 601
	ErrCodeEngineNoFeed        ErrorCode = 602
	ErrCodeSessionInitFailed   ErrorCode = 603
	ErrCodeStatusServerFailure ErrorCode = 604

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataParseFailed ErrorCode = 701
	ErrCodeInvalidProvider       ErrorCode = 702
	ErrCodeMarketDataTimeout     ErrorCode = 703
	ErrCodeMissingAPIKey         ErrorCode = 704

	// Callback errors (800-899)
	ErrCodeCallbackFailed ErrorCode = 800
)
