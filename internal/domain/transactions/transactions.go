// Package transactions builds the income and expense rows of the new
// transactions table from the legacy cash moves.
package transactions

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/frov1981/financial2026/internal/legacy"
	"github.com/frov1981/financial2026/internal/sqlgen"
	"github.com/frov1981/financial2026/pkg/config"
)

// ErrNoTransactions is returned when a filter matches no legacy move.
var ErrNoTransactions = errors.New("no transactions matched the filter")

// maxDescription caps the description column of the new schema.
const maxDescription = 1000

var columns = []string{
	"type", "amount", "date", "description",
	"user_id", "account_id", "to_account_id", "category_id",
}

// CategoryResolver resolves a legacy account name to a category id, nil
// when unknown.
type CategoryResolver interface {
	Lookup(raw string) *int
}

type filter struct {
	trxType     int
	moveType    int
	accountType int
	target      string
}

// BuildIncome renders the bulk INSERT of the legacy cash income moves.
func BuildIncome(moves []legacy.Move, idx CategoryResolver, cfg *config.Config, logger *slog.Logger) (string, error) {
	return build(moves, filter{
		trxType:     legacy.TrxTypeIncome,
		moveType:    legacy.MoveTypeIncome,
		accountType: legacy.AccountTypeCash,
		target:      "income",
	}, idx, cfg, logger)
}

// BuildExpense renders the bulk INSERT of the legacy cash expense moves.
func BuildExpense(moves []legacy.Move, idx CategoryResolver, cfg *config.Config, logger *slog.Logger) (string, error) {
	return build(moves, filter{
		trxType:     legacy.TrxTypeExpense,
		moveType:    legacy.MoveTypeExpense,
		accountType: legacy.AccountTypeCash,
		target:      "expense",
	}, idx, cfg, logger)
}

func build(moves []legacy.Move, f filter, idx CategoryResolver, cfg *config.Config, logger *slog.Logger) (string, error) {
	var rows []string

	for _, m := range moves {
		if m.TrxType != f.trxType || m.MoveType != f.moveType || m.AccountType != f.accountType {
			continue
		}

		rows = append(rows, fmt.Sprintf("('%s',%s,'%s',%s,%d,%d,NULL,%s)",
			f.target,
			m.Amount.Abs().String(),
			sqlgen.FormatDateTime(m.MovedAt),
			sqlgen.QuoteOrNull(Description(m.Title, m.Remark)),
			cfg.Target.UserID,
			cfg.Target.CashAccountID,
			sqlgen.IntOrNull(idx.Lookup(m.AccountName)),
		))
	}

	if len(rows) == 0 {
		return "", fmt.Errorf("%s: %w", f.target, ErrNoTransactions)
	}

	logger.Info("transactions built", "type", f.target, "count", len(rows))
	return sqlgen.Insert("transactions", columns, rows), nil
}

// Description joins title and remark with an escaped newline when both are
// present, keeps whichever exists otherwise, and truncates the escaped text
// to the column limit. An empty result renders as NULL.
func Description(title, remark string) string {
	t := sqlgen.Escape(title)
	r := sqlgen.Escape(remark)

	var d string
	switch {
	case t != "" && r != "":
		d = t + `\n` + r
	case t != "":
		d = t
	default:
		d = r
	}

	if runes := []rune(d); len(runes) > maxDescription {
		d = string(runes[:maxDescription])
	}
	return d
}
