package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LoggerTestSuite struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (suite *LoggerTestSuite) TestNewLogger() {
	logger, err := NewLogger()
	suite.NoError(err)
	suite.NotNil(logger)
	suite.NotNil(logger.Logger)
	suite.True(logger.Core().Enabled(0))
	suite.False(logger.Core().Enabled(-1))
}

func (suite *LoggerTestSuite) TestLoggerSyncNilLogger() {
	logger := &Logger{Logger: nil}

	// Sync should not panic and should return nil for a nil inner logger
	err := logger.Sync()
	suite.NoError(err)
}

func (suite *LoggerTestSuite) TestNewLoggerWithLevel() {
	logger, err := NewLoggerWithOptions(Options{Level: "debug", File: ""})
	suite.NoError(err)
	suite.True(logger.Core().Enabled(-1))

	logger, err = NewLoggerWithOptions(Options{Level: "warn", File: ""})
	suite.NoError(err)
	suite.False(logger.Core().Enabled(0))
}

func (suite *LoggerTestSuite) TestNewLoggerInvalidLevel() {
	logger, err := NewLoggerWithOptions(Options{Level: "loud", File: ""})
	suite.Error(err)
	suite.Nil(logger)
}

func (suite *LoggerTestSuite) TestNewLoggerToFile() {
	path := filepath.Join(suite.T().TempDir(), "tracker.log")

	logger, err := NewLoggerWithOptions(Options{Level: "info", File: path})
	suite.Require().NoError(err)

	logger.Info("feed fallback")
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.Contains(string(content), "feed fallback")
}

func (suite *LoggerTestSuite) TestNopLogger() {
	logger := NewNopLogger()

	// These should not panic
	logger.Info("test info message")
	logger.With().Warn("test warn message")
	suite.NoError(logger.Sync())
}
