package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// saveState writes the persistence projection of every thread's entries to
// path as indented UTF-8 JSON under an "stm" key, creating parent
// directories as needed.
func saveState(path string, threads map[string][]Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}
	projected := make(map[string][]map[string]any, len(threads))
	for threadID, entries := range threads {
		rows := make([]map[string]any, len(entries))
		for i, e := range entries {
			rows[i] = e.Persist()
		}
		projected[threadID] = rows
	}
	data, err := json.MarshalIndent(struct {
		STM map[string][]map[string]any `json:"stm"`
	}{STM: projected}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal memory state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write memory state: %w", err)
	}
	return nil
}

// loadState reads a previously-saved state document. A missing file or a
// malformed one is never an error to the caller: it is logged and treated
// as "nothing persisted yet", matching the sink's never-raise contract.
func loadState(path string) (map[string][]Entry, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("memory_state_read_failed")
		}
		return nil, false
	}
	var raw struct {
		STM map[string][]Entry `json:"stm"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("memory_state_decode_failed")
		return nil, false
	}
	return raw.STM, true
}
