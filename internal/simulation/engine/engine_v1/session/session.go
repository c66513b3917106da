// Package session lays out the output folder of a simulation run:
//
//	{basePath}/{YYYY-MM-DD}/run_N/
//
// N is one more than the highest run already present for the date.
package session

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-tracker/internal/logger"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

var runPattern = regexp.MustCompile(`^run_(\d+)$`)

// Manager owns the folder of the current run.
type Manager struct {
	basePath  string
	runID     string
	runNumber int
	startedAt time.Time
	date      string
	runPath   string
	mu        sync.Mutex
	logger    *logger.Logger
}

func NewManager(log *logger.Logger) *Manager {
	return &Manager{
		basePath:  "",
		runID:     "",
		runNumber: 0,
		startedAt: time.Time{},
		date:      "",
		runPath:   "",
		mu:        sync.Mutex{},
		logger:    log,
	}
}

// Initialize picks the next run number for the date of now and creates the
// run folder.
func (m *Manager) Initialize(basePath string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if basePath == "" {
		return errors.New(errors.ErrCodeOutputPathError, "session output path is empty")
	}

	m.basePath = basePath
	m.startedAt = now
	m.date = now.Format(dateLayout)

	runNumber, err := nextRunNumber(filepath.Join(basePath, m.date))
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionInitFailed, "failed to determine run number", err)
	}

	m.runNumber = runNumber
	m.runID = uuid.New().String()
	m.runPath = filepath.Join(basePath, m.date, "run_"+strconv.Itoa(runNumber))

	if err := os.MkdirAll(m.runPath, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeSessionInitFailed, "failed to create run folder", err)
	}

	m.logger.Info("Session initialized",
		zap.String("run_id", m.runID),
		zap.Int("run_number", m.runNumber),
		zap.String("path", m.runPath),
	)

	return nil
}

// RunID is the unique identifier written to stats.yaml.
func (m *Manager) RunID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.runID
}

func (m *Manager) RunNumber() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.runNumber
}

func (m *Manager) StartedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.startedAt
}

// RunPath is empty until Initialize succeeds.
func (m *Manager) RunPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.runPath
}

// FilePath joins filename onto the run folder.
func (m *Manager) FilePath(filename string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return filepath.Join(m.runPath, filename)
}

// ListRuns returns the run folders recorded for date, by run number.
func (m *Manager) ListRuns(date string) ([]string, error) {
	m.mu.Lock()
	base := m.basePath
	m.mu.Unlock()

	numbers, err := runNumbers(filepath.Join(base, date))
	if err != nil {
		return nil, err
	}

	runs := make([]string, 0, len(numbers))
	for _, n := range numbers {
		runs = append(runs, "run_"+strconv.Itoa(n))
	}

	return runs, nil
}

func nextRunNumber(datePath string) (int, error) {
	numbers, err := runNumbers(datePath)
	if err != nil {
		return 0, err
	}

	if len(numbers) == 0 {
		return 1, nil
	}

	return numbers[len(numbers)-1] + 1, nil
}

// runNumbers returns the sorted run numbers found in datePath.
func runNumbers(datePath string) ([]int, error) {
	entries, err := os.ReadDir(datePath)
	if os.IsNotExist(err) {
		return []int{}, nil
	}

	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutputPathError, "failed to read date directory", err)
	}

	numbers := []int{}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		matches := runPattern.FindStringSubmatch(entry.Name())
		if len(matches) != 2 {
			continue
		}

		n, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}

		numbers = append(numbers, n)
	}

	sort.Ints(numbers)

	return numbers, nil
}
