// Package loans rebuilds the loans and loan_payments tables from the legacy
// loan moves: one loan per disbursement group, one payment per
// principal/interest pair, with post-insert UPDATEs that stitch the foreign
// keys and recompute the balances server-side.
package loans

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frov1981/financial2026/internal/legacy"
	"github.com/frov1981/financial2026/internal/sqlgen"
	"github.com/frov1981/financial2026/pkg/config"
)

// ErrNoLoans is returned when the disbursement filter matches nothing.
var ErrNoLoans = errors.New("no loan disbursements matched the filter")

// CategoryResolver resolves a legacy account name to a category id, nil
// when unknown.
type CategoryResolver interface {
	Lookup(raw string) *int
}

// Loan is one row of the new loans table. Name is the raw legacy account
// name: loans never merge on the canonical form, so cosmetically different
// names stay separate loans.
type Loan struct {
	ID          int
	Name        string
	TotalAmount decimal.Decimal
	StartDate   time.Time
}

// Result carries the three script sections of the loan builder and the loan
// list the payment builder joins against.
type Result struct {
	LoansSQL        string
	TransactionsSQL string
	BackfillSQL     string
	Loans           []Loan
}

var transactionColumns = []string{
	"type", "amount", "date", "description",
	"user_id", "account_id", "to_account_id", "category_id",
}

// Build groups the legacy loan disbursements by raw account name and emits
// one loan plus one income transaction per group. The transaction id is not
// known at insert time, so BackfillSQL matches each loan to its transaction
// by content (amount, date, description) after both inserts commit.
func Build(moves []legacy.Move, idx CategoryResolver, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	disbursements := legacy.FilterMoves(moves, func(m legacy.Move) bool {
		return m.MoveType == legacy.MoveTypeIncome &&
			m.AccountType == legacy.AccountTypeLoanSource &&
			(m.TrxType == legacy.TrxTypeIncome || m.TrxType == legacy.TrxTypeLoanDisbursementFx)
	})
	if len(disbursements) == 0 {
		return nil, ErrNoLoans
	}

	type group struct {
		total decimal.Decimal
		start time.Time
	}
	groups := make(map[string]*group)
	for _, m := range disbursements {
		g, ok := groups[m.AccountName]
		if !ok {
			g = &group{start: m.MovedAt}
			groups[m.AccountName] = g
		}
		g.total = g.total.Add(m.Amount.Abs())
		if m.MovedAt.Before(g.start) {
			g.start = m.MovedAt
		}
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	result := &Result{Loans: make([]Loan, 0, len(groups))}
	loanRows := make([]string, 0, len(groups))
	trxRows := make([]string, 0, len(groups))

	for i, name := range names {
		g := groups[name]
		loan := Loan{
			ID:          i + 1,
			Name:        name,
			TotalAmount: g.total,
			StartDate:   g.start,
		}
		result.Loans = append(result.Loans, loan)

		escaped := sqlgen.Escape(name)
		start := sqlgen.FormatDateTime(g.start)

		loanRows = append(loanRows, fmt.Sprintf("(%d,'%s',%s,0,0.00,'%s',NULL,true,%d,%d,NULL)",
			loan.ID, escaped, g.total.String(), start,
			cfg.Target.UserID, cfg.Target.CashAccountID))

		trxRows = append(trxRows, fmt.Sprintf("('income',%s,'%s','%s',%d,%d,NULL,%s)",
			g.total.String(), start, escaped,
			cfg.Target.UserID, cfg.Target.CashAccountID,
			sqlgen.IntOrNull(idx.Lookup(name))))
	}

	result.LoansSQL = sqlgen.Insert("loans", []string{
		"loan_number", "name", "total_amount", "balance", "interest_amount",
		"start_date", "end_date", "is_active", "user_id",
		"disbursement_account_id", "transaction_id",
	}, loanRows)

	result.TransactionsSQL = sqlgen.Insert("transactions", transactionColumns, trxRows)

	result.BackfillSQL = fmt.Sprintf(`UPDATE loans l
JOIN transactions t ON (
  t.type = 'income'
  AND t.user_id = %d
  AND t.account_id = %d
  AND t.amount = l.total_amount
  AND t.date = l.start_date
  AND t.description = l.name
)
SET l.transaction_id = t.id
WHERE l.transaction_id IS NULL;`,
		cfg.Target.UserID, cfg.Target.CashAccountID)

	logger.Info("loans built", "count", len(result.Loans))
	return result, nil
}
