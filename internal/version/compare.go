package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckConfigCompatibility checks that a configuration file written for
// configVersion can be loaded by a tracker at trackerVersion.
//
// Rules:
//   - An empty config version, or either side being "main", skips the check
//   - Major versions must match
//   - The config may not require a newer minor version than the tracker
//   - Patch versions are ignored
//
// Examples:
//   - Tracker 0.3.0, Config 0.3.0 -> OK
//   - Tracker 0.3.2, Config 0.2.0 -> OK (older config)
//   - Tracker 0.3.0, Config 0.4.0 -> ERROR (config needs newer tracker)
//   - Tracker 1.0.0, Config 0.3.0 -> ERROR (major differs)
func CheckConfigCompatibility(trackerVersion, configVersion string) error {
	trackerVersion = strings.TrimPrefix(trackerVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if configVersion == "" || trackerVersion == "main" || configVersion == "main" {
		return nil
	}

	tracker, err := semver.NewVersion(trackerVersion)
	if err != nil {
		return fmt.Errorf("invalid tracker version '%s': %w", trackerVersion, err)
	}

	config, err := semver.NewVersion(configVersion)
	if err != nil {
		return fmt.Errorf("invalid config version '%s': %w", configVersion, err)
	}

	if tracker.Major() != config.Major() {
		return fmt.Errorf("major version mismatch: tracker is %d.x.x but config requires %d.x.x",
			tracker.Major(), config.Major())
	}

	if config.Minor() > tracker.Minor() {
		return fmt.Errorf("config requires tracker %d.%d.x or newer, running %s",
			config.Major(), config.Minor(), tracker.String())
	}

	return nil
}
