// Package transfers builds the transfer transactions for legacy savings
// deposits and withdrawals. The counterpart account comes from the
// configured name lookup; names that resolve to nothing are dropped, and an
// empty result is not an error — a dataset without savings activity is fine.
package transfers

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/frov1981/financial2026/internal/legacy"
	"github.com/frov1981/financial2026/internal/names"
	"github.com/frov1981/financial2026/internal/sqlgen"
	"github.com/frov1981/financial2026/pkg/config"
)

var columns = []string{
	"id", "type", "amount", "date", "description",
	"user_id", "account_id", "to_account_id", "category_id",
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// BuildSavings renders the transfer INSERT for savings deposits: money
// leaves the cash account toward the resolved savings account.
func BuildSavings(moves []legacy.Move, cfg *config.Config, logger *slog.Logger) string {
	deposits := legacy.FilterMoves(moves, func(m legacy.Move) bool {
		return m.MoveType == legacy.MoveTypeIncome &&
			m.AccountType == legacy.AccountTypeSavings &&
			(m.TrxType == legacy.TrxTypeIncome || m.TrxType == legacy.TrxTypeSavingsDeposit)
	})
	return build(deposits, cfg, logger, "savings", func(counterpart int) (from, to int) {
		return cfg.Target.CashAccountID, counterpart
	})
}

// BuildWithdrawals renders the transfer INSERT for withdrawals: money
// leaves the resolved savings account back into the cash account.
func BuildWithdrawals(moves []legacy.Move, cfg *config.Config, logger *slog.Logger) string {
	withdrawals := legacy.FilterMoves(moves, func(m legacy.Move) bool {
		return m.TrxType == legacy.TrxTypeWithdrawal &&
			m.AccountType == legacy.AccountTypeSavings &&
			(m.MoveType == legacy.MoveTypeIncome || m.MoveType == legacy.MoveTypeExpense)
	})
	return build(withdrawals, cfg, logger, "withdrawals", func(counterpart int) (from, to int) {
		return counterpart, cfg.Target.CashAccountID
	})
}

func build(moves []legacy.Move, cfg *config.Config, logger *slog.Logger, kind string, direction func(counterpart int) (from, to int)) string {
	var rows []string

	for _, m := range moves {
		counterpart, ok := cfg.Transfer.AccountByName[names.LettersOnly(m.AccountName)]
		if !ok {
			continue
		}
		from, to := direction(counterpart)

		rows = append(rows, fmt.Sprintf("(NULL,'transfer',%s,'%s','%s',%d,%d,%d,NULL)",
			m.Amount.Abs().String(),
			sqlgen.FormatDateTime(m.MovedAt),
			transferDescription(m.Title, m.Remark),
			cfg.Target.UserID, from, to))
	}

	logger.Info("transfers built", "kind", kind, "count", len(rows))
	if len(rows) == 0 {
		return ""
	}
	return sqlgen.Insert("transactions", columns, rows)
}

// transferDescription joins title and remark into one single-line literal:
// newlines become spaces, runs collapse, quotes are doubled.
func transferDescription(title, remark string) string {
	d := title + " " + remark
	d = strings.NewReplacer("\r", " ", "\n", " ").Replace(d)
	d = whitespaceRun.ReplaceAllString(d, " ")
	d = strings.TrimSpace(d)
	return strings.ReplaceAll(d, "'", "''")
}
