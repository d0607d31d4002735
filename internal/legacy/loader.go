package legacy

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Snapshot is the fully loaded legacy export.
type Snapshot struct {
	Accounts []Account
	Moves    []Move
}

type export struct {
	Accounts []Account `json:"accounts"`
	Moves    []rawMove `json:"moves"`
}

// Load reads and flattens one legacy JSON export.
func Load(path string, logger *slog.Logger) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read legacy export: %w", err)
	}

	var e export
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode legacy export: %w", err)
	}

	snap := &Snapshot{
		Accounts: e.Accounts,
		Moves:    make([]Move, 0, len(e.Moves)),
	}
	for _, raw := range e.Moves {
		m, err := raw.flatten()
		if err != nil {
			return nil, err
		}
		snap.Moves = append(snap.Moves, m)
	}

	logger.Info("legacy export loaded",
		"path", path,
		"accounts", len(snap.Accounts),
		"moves", len(snap.Moves))
	return snap, nil
}
