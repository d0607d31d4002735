package categories

import (
	"log/slog"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/frov1981/financial2026/internal/names"
)

// Index resolves a legacy free-text account name to a category id through
// the canonical join key. A miss is never fatal: the caller gets nil and
// the nearest known name, if any, is logged once as a hint.
type Index struct {
	idByName map[string]int
	known    []string
	reported map[string]bool
	logger   *slog.Logger
}

// NewIndex builds the lookup index. When the same canonical name exists as
// both an income and an expense category the first (lowest id) wins, which
// mirrors the id assignment order of Build.
func NewIndex(cats []Category, logger *slog.Logger) *Index {
	idx := &Index{
		idByName: make(map[string]int, len(cats)),
		known:    make([]string, 0, len(cats)),
		reported: make(map[string]bool),
		logger:   logger,
	}
	for _, c := range cats {
		if _, ok := idx.idByName[c.Name]; ok {
			continue
		}
		idx.idByName[c.Name] = c.ID
		idx.known = append(idx.known, c.Name)
	}
	return idx
}

// Lookup returns the category id for a raw legacy name, or nil when the
// canonical form is unknown.
func (idx *Index) Lookup(raw string) *int {
	name := names.Canonical(raw)
	if name == "" {
		return nil
	}
	if id, ok := idx.idByName[name]; ok {
		return &id
	}
	idx.suggest(name)
	return nil
}

// suggest logs the closest known category name for an unresolved lookup,
// once per distinct miss.
func (idx *Index) suggest(name string) {
	if idx.reported[name] {
		return
	}
	idx.reported[name] = true

	ranks := fuzzy.RankFindNormalizedFold(name, idx.known)
	if len(ranks) == 0 {
		idx.logger.Warn("category not resolved", "name", name)
		return
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	idx.logger.Warn("category not resolved",
		"name", name,
		"closest", best.Target,
		"distance", best.Distance)
}
