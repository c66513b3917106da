package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-tracker/internal/logger"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SessionTestSuite struct {
	suite.Suite
	base string
	now  time.Time
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func (suite *SessionTestSuite) SetupTest() {
	suite.base = suite.T().TempDir()
	suite.now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func (suite *SessionTestSuite) TestFirstRun() {
	m := NewManager(logger.NewNopLogger())
	suite.Require().NoError(m.Initialize(suite.base, suite.now))

	suite.Equal(1, m.RunNumber())
	suite.Equal(filepath.Join(suite.base, "2026-03-14", "run_1"), m.RunPath())
	suite.NotEmpty(m.RunID())
	suite.Equal(suite.now, m.StartedAt())
	suite.DirExists(m.RunPath())
	suite.Equal(filepath.Join(m.RunPath(), "stats.yaml"), m.FilePath("stats.yaml"))
}

func (suite *SessionTestSuite) TestRunNumberContinuesAfterHighest() {
	dateDir := filepath.Join(suite.base, "2026-03-14")
	for _, name := range []string{"run_1", "run_4", "notes", "run_x"} {
		suite.Require().NoError(os.MkdirAll(filepath.Join(dateDir, name), 0755))
	}

	suite.Require().NoError(os.WriteFile(filepath.Join(dateDir, "run_9"), []byte("file, not a run"), 0644))

	m := NewManager(logger.NewNopLogger())
	suite.Require().NoError(m.Initialize(suite.base, suite.now))
	suite.Equal(5, m.RunNumber())

	runs, err := m.ListRuns("2026-03-14")
	suite.Require().NoError(err)
	suite.Equal([]string{"run_1", "run_4", "run_5"}, runs)
}

func (suite *SessionTestSuite) TestRunIDsAreUnique() {
	a := NewManager(logger.NewNopLogger())
	b := NewManager(logger.NewNopLogger())
	suite.Require().NoError(a.Initialize(suite.base, suite.now))
	suite.Require().NoError(b.Initialize(suite.base, suite.now))

	suite.NotEqual(a.RunID(), b.RunID())
	suite.Equal(2, b.RunNumber())
}

func (suite *SessionTestSuite) TestEmptyPath() {
	err := NewManager(logger.NewNopLogger()).Initialize("", suite.now)
	suite.True(errors.HasCode(err, errors.ErrCodeOutputPathError))
}

func (suite *SessionTestSuite) TestListRunsForUnknownDate() {
	m := NewManager(logger.NewNopLogger())
	suite.Require().NoError(m.Initialize(suite.base, suite.now))

	runs, err := m.ListRuns("1999-01-01")
	suite.Require().NoError(err)
	suite.Empty(runs)
}
