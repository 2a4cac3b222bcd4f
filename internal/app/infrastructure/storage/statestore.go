package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"streamhub/internal/app/domain/hub"
	"streamhub/pkg/logger"
)

// stateKey namespaces the blob inside the file, mirroring the single
// durable-storage key the renderers use.
const stateKey = "streamHubState"

// StateStore persists the durable view-state subset as one JSON blob.
// Everything here is best-effort: a failed save just means the state does not
// survive a restart, and a corrupt blob loads as defaults.
type StateStore struct {
	log  logger.Logger
	path string
}

func NewStateStore(log logger.Logger, path string) *StateStore {
	return &StateStore{log: log, path: path}
}

// Save writes the blob atomically. Write errors are logged, never
// returned, so persistence cannot fail a mutation.
func (s *StateStore) Save(p hub.Persisted) {
	if s.path == "" {
		return
	}

	data, err := json.MarshalIndent(map[string]hub.Persisted{stateKey: p}, "", "  ")
	if err != nil {
		return
	}

	if err := s.writeAtomic(data); err != nil {
		s.log.Trace("State flush failed", "error", err.Error())
	}
}

// Load reads the blob back field by field. A missing file, unparseable blob
// or absent key yields (zero, false); a field that fails to decode is simply
// skipped so the rest of the blob still restores.
func (s *StateStore) Load() (hub.Persisted, bool) {
	var p hub.Persisted

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return p, false
	}

	var blob map[string]json.RawMessage
	if err := json.Unmarshal(raw, &blob); err != nil {
		return p, false
	}

	rec, ok := blob[stateKey]
	if !ok {
		return p, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rec, &fields); err != nil {
		return p, false
	}

	decode := func(key string, dst any) {
		if raw, ok := fields[key]; ok {
			_ = json.Unmarshal(raw, dst)
		}
	}

	decode("dock", &p.Dock)
	decode("focusMode", &p.FocusMode)
	decode("slots", &p.Slots)
	decode("targetSlot", &p.TargetSlot)
	decode("activeSlot", &p.ActiveSlot)
	decode("followedFilter", &p.FollowedFilter)
	decode("categoriesTagFilters", &p.CategoriesTagFilters)
	decode("categoriesSort", &p.CategoriesSort)

	return p, true
}

func (s *StateStore) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d", filepath.Base(s.path), time.Now().UnixNano()))
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
