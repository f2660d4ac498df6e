package seen

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrCorruptState marks a state file that exists but cannot be parsed.
// Callers abort the run so the file stays available for inspection.
var ErrCorruptState = errors.New("corrupt state file")

// stateFile is the wire format. The car_ids key predates this tool and is
// kept so existing state files and their consumers keep working.
type stateFile struct {
	CarIDs []string `json:"car_ids"`
}

// Load reads the seen set from path. A missing file is an empty set
// (first run); anything unreadable or unparsable is ErrCorruptState.
func Load(path string) (Set, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("state path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewSet(), nil
		}
		return nil, fmt.Errorf("read state %q: %w", path, err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return NewSet(), nil
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptState, path, err)
	}
	return NewSet(state.CarIDs...), nil
}

// Save atomically replaces path with the set's membership, sorted so the
// scheduler's version-control commits stay diffable.
func Save(path string, set Set) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("state path is required")
	}

	state := stateFile{CarIDs: set.IDs()}
	if state.CarIDs == nil {
		state.CarIDs = []string{}
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".seen-*.json")
	if err != nil {
		return fmt.Errorf("write state %q: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write state %q: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write state %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write state %q: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write state %q: %w", path, err)
	}
	return nil
}
