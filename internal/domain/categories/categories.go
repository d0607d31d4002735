// Package categories turns the legacy income/expense accounts into the
// categories of the new schema and provides the name index the transaction
// and loan builders resolve against.
package categories

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/frov1981/financial2026/internal/legacy"
	"github.com/frov1981/financial2026/internal/names"
	"github.com/frov1981/financial2026/internal/sqlgen"
	"github.com/frov1981/financial2026/pkg/config"
)

// ErrNoCategories is returned when no legacy account survives
// normalization and classification.
var ErrNoCategories = errors.New("no categories to insert")

// Category is one row of the new categories table. Name is the canonical
// form; legacy accounts differing only by suffix noise collapse into one.
type Category struct {
	ID       int
	Name     string
	Type     string
	IsActive bool
}

type key struct {
	name string
	typ  string
}

// Build deduplicates the legacy accounts into categories with sequential
// ids and renders their bulk INSERT. Id assignment is deterministic: rows
// are visited in raw-name order and each unique (canonical name, type) pair
// takes the next id on first sight.
func Build(accounts []legacy.Account, cfg *config.Config, logger *slog.Logger) (string, []Category, error) {
	sorted := make([]legacy.Account, len(accounts))
	copy(sorted, accounts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var cats []Category
	seen := make(map[key]bool)

	for _, a := range sorted {
		name := names.Canonical(a.Name)
		if name == "" {
			continue
		}

		var typ string
		switch a.MoveType {
		case legacy.MoveTypeIncome:
			typ = "income"
		case legacy.MoveTypeExpense:
			typ = "expense"
		default:
			continue
		}

		k := key{name: name, typ: typ}
		if seen[k] {
			continue
		}
		seen[k] = true

		cats = append(cats, Category{
			ID:       len(cats) + 1,
			Name:     name,
			Type:     typ,
			IsActive: a.Active(),
		})
	}

	if len(cats) == 0 {
		return "", nil, ErrNoCategories
	}

	rows := make([]string, 0, len(cats))
	for _, c := range cats {
		active := 0
		if c.IsActive {
			active = 1
		}
		rows = append(rows, fmt.Sprintf("(%d,'%s','%s',%d,%d,NULL)",
			c.ID, sqlgen.Escape(c.Name), c.Type, active, cfg.Target.UserID))
	}

	sql := sqlgen.Insert("categories",
		[]string{"id", "name", "type", "is_active", "user_id", "parent_id"}, rows)

	logger.Info("categories built", "count", len(cats))
	return sql, cats, nil
}
