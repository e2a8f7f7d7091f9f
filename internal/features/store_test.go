package features

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func defaultTestDefaults() Defaults {
	return Defaults{
		PingAPI:       true,
		ReadmeLogger:  false,
		TodoWriteAPI:  true,
		TodoSearchAPI: true,
	}
}

func TestNewStore_SeedsDefaults(t *testing.T) {
	t.Parallel()

	store := NewStore(defaultTestDefaults(), false, "", nil)

	if !store.IsEnabled(FlagPingAPI) {
		t.Error("expected PING_API to be enabled by default")
	}
	if store.IsEnabled(FlagReadmeLogger) {
		t.Error("expected README_LOGGER to be disabled by default")
	}
	if !store.IsEnabled(FlagTodoWriteAPI) {
		t.Error("expected TODO_WRITE_API to be enabled by default")
	}
	if !store.IsEnabled(FlagTodoSearchAPI) {
		t.Error("expected TODO_SEARCH_API to be enabled by default")
	}

	all := store.All()
	if len(all) != len(AllFlags()) {
		t.Errorf("All() returned %d flags, want %d", len(all), len(AllFlags()))
	}
}

func TestStore_OverlayFromDisk(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "feature-flags-state.json")
	state := map[string]bool{
		"PING_API":     false,
		"UNKNOWN_FLAG": true, // ignored for forward compatibility
	}
	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("failed to marshal state: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write state file: %v", err)
	}

	store := NewStore(defaultTestDefaults(), true, path, nil)

	if store.IsEnabled(FlagPingAPI) {
		t.Error("expected persisted state to overlay PING_API to disabled")
	}
	if !store.IsEnabled(FlagTodoWriteAPI) {
		t.Error("expected TODO_WRITE_API to keep its seeded value")
	}
}

func TestStore_MalformedStateFileFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "feature-flags-state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write state file: %v", err)
	}

	store := NewStore(defaultTestDefaults(), true, path, nil)

	if !store.IsEnabled(FlagPingAPI) {
		t.Error("expected seeded default to survive malformed state file")
	}
}

func TestStore_MissingStateFileIsNotAnError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "does-not-exist.json")
	store := NewStore(defaultTestDefaults(), true, path, nil)

	if !store.IsEnabled(FlagTodoSearchAPI) {
		t.Error("expected seeded defaults when state file is absent")
	}
}

func TestStore_SetEnabledPersistsAndSurvivesRestart(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "feature-flags-state.json")

	store := NewStore(defaultTestDefaults(), true, path, nil)
	store.SetEnabled(FlagTodoWriteAPI, false)

	if store.IsEnabled(FlagTodoWriteAPI) {
		t.Fatal("expected TODO_WRITE_API to be disabled after toggle")
	}

	// The parent directories should have been created and the full map written.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected state file to exist: %v", err)
	}
	var stored map[string]bool
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("state file is not valid JSON: %v", err)
	}
	if len(stored) != len(AllFlags()) {
		t.Errorf("state file contains %d flags, want %d", len(stored), len(AllFlags()))
	}
	if stored["TODO_WRITE_API"] {
		t.Error("expected TODO_WRITE_API to be persisted as disabled")
	}

	// Simulate a restart: a fresh store seeded from defaults picks up the toggle.
	restarted := NewStore(defaultTestDefaults(), true, path, nil)
	if restarted.IsEnabled(FlagTodoWriteAPI) {
		t.Error("expected persisted toggle to survive restart")
	}
}

func TestStore_PersistenceDisabledIgnoresDisk(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "feature-flags-state.json")
	if err := os.WriteFile(path, []byte(`{"PING_API": false}`), 0o644); err != nil {
		t.Fatalf("failed to write state file: %v", err)
	}

	store := NewStore(defaultTestDefaults(), false, path, nil)

	if !store.IsEnabled(FlagPingAPI) {
		t.Error("expected on-disk state to be ignored when persistence is disabled")
	}

	store.SetEnabled(FlagPingAPI, false)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read state file: %v", err)
	}
	var stored map[string]bool
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("state file is not valid JSON: %v", err)
	}
	if stored["PING_API"] != false || len(stored) != 1 {
		t.Error("expected state file to be untouched when persistence is disabled")
	}
}

func TestStore_PersistFailureDoesNotRevertInMemoryState(t *testing.T) {
	t.Parallel()

	// Point the state file at a path whose parent is a regular file so the
	// write must fail.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write blocker file: %v", err)
	}
	path := filepath.Join(blocker, "state.json")

	store := NewStore(defaultTestDefaults(), true, path, nil)
	store.SetEnabled(FlagTodoSearchAPI, false)

	if store.IsEnabled(FlagTodoSearchAPI) {
		t.Error("expected in-memory toggle to hold even when persistence fails")
	}
}

func TestStore_ConcurrentReadsAndWrites(t *testing.T) {
	t.Parallel()

	store := NewStore(defaultTestDefaults(), false, "", nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(enabled bool) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.SetEnabled(FlagPingAPI, enabled)
			}
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = store.IsEnabled(FlagPingAPI)
				_ = store.All()
			}
		}()
	}
	wg.Wait()
}

func TestParseFlag(t *testing.T) {
	t.Parallel()

	for _, flag := range AllFlags() {
		parsed, err := ParseFlag(string(flag))
		if err != nil {
			t.Errorf("ParseFlag(%q) returned error: %v", flag, err)
		}
		if parsed != flag {
			t.Errorf("ParseFlag(%q) = %q", flag, parsed)
		}
	}

	if _, err := ParseFlag("NOT_A_FLAG"); err == nil {
		t.Error("expected error for unknown flag name")
	}
}
