package features

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Store holds the current enabled/disabled state for every known feature flag.
//
// Values are seeded from configuration defaults, optionally overlaid with
// previously persisted state from disk, and can be toggled at runtime. Runtime
// changes are written back to disk best-effort so flag state survives restarts;
// a failed write never fails the toggle, the in-memory state stays
// authoritative for the life of the process.
type Store struct {
	mu      sync.RWMutex
	flags   map[Flag]bool
	persist bool
	path    string
	logger  *zap.Logger
}

// NewStore creates a flag store seeded from defaults. When persist is true,
// state previously written to statePath is overlaid onto the seeded values and
// subsequent toggles are mirrored back to the same file.
func NewStore(defaults Defaults, persist bool, statePath string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		flags:   make(map[Flag]bool, len(AllFlags())),
		persist: persist,
		path:    statePath,
		logger:  logger,
	}

	for _, flag := range AllFlags() {
		s.flags[flag] = defaults.valueFor(flag)
	}

	if s.persist {
		s.loadFromDisk()
	}

	return s
}

// IsEnabled reports whether the given flag is currently enabled.
// Seeding guarantees every known flag is present; absence reads as disabled.
func (s *Store) IsEnabled(flag Flag) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags[flag]
}

// All returns a snapshot of the current state of every flag.
func (s *Store) All() map[Flag]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[Flag]bool, len(s.flags))
	for flag, enabled := range s.flags {
		snapshot[flag] = enabled
	}
	return snapshot
}

// SetEnabled updates a flag's value. The in-memory change is visible to
// subsequent reads immediately; persistence to disk is best-effort.
func (s *Store) SetEnabled(flag Flag, enabled bool) {
	s.mu.Lock()
	s.flags[flag] = enabled
	snapshot := make(map[string]bool, len(s.flags))
	for f, e := range s.flags {
		snapshot[string(f)] = e
	}
	s.mu.Unlock()

	if s.persist {
		s.persistToDisk(snapshot)
	}
}

// loadFromDisk overlays persisted flag state onto the seeded values. Unknown
// keys are ignored for forward compatibility; any read or parse failure keeps
// the seeded defaults.
func (s *Store) loadFromDisk() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed_to_read_feature_flag_state",
				zap.String("path", s.path),
				zap.Error(err),
			)
		}
		return
	}

	var stored map[string]bool
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("failed_to_parse_feature_flag_state",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for name, enabled := range stored {
		flag, err := ParseFlag(name)
		if err != nil {
			continue
		}
		s.flags[flag] = enabled
	}
}

// persistToDisk writes the full flag map to the state file, creating parent
// directories as needed. Failures are logged and swallowed.
func (s *Store) persistToDisk(snapshot map[string]bool) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		s.logger.Warn("failed_to_encode_feature_flag_state", zap.Error(err))
		return
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.logger.Warn("failed_to_create_feature_flag_state_dir",
				zap.String("dir", dir),
				zap.Error(err),
			)
			return
		}
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Warn("failed_to_write_feature_flag_state",
			zap.String("path", s.path),
			zap.Error(err),
		)
	}
}
