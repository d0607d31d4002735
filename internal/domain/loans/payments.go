package loans

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/frov1981/financial2026/internal/legacy"
	"github.com/frov1981/financial2026/internal/names"
	"github.com/frov1981/financial2026/internal/sqlgen"
	"github.com/frov1981/financial2026/pkg/config"
)

// ErrNoPayments is returned when the payment filter matches nothing.
var ErrNoPayments = errors.New("no loan payments matched the filter")

// paymentDescription is the fixed description of every payment-side
// expense transaction.
const paymentDescription = "Pago préstamo"

// PaymentsResult carries the script sections of the payment builder in
// their output order.
type PaymentsResult struct {
	PaymentsSQL     string
	TransactionsSQL string
	BackfillSQL     string
	BalanceSQL      string
	InterestSQL     string
	CloseSQL        string
	Count           int
	Orphans         int
}

type paymentKey struct {
	loanID int
	date   string
}

type payment struct {
	loanID       int
	principal    decimal.Decimal
	interest     decimal.Decimal
	hasPrincipal bool
	date         string
	categoryID   *int
}

// BuildPayments groups the legacy loan payment moves by (loan, timestamp),
// folding the principal leg (accountType 4) and the optional interest leg
// (accountType 5) of the same instant into one payment. Legs whose account
// name resolves to no known loan are dropped. Grouping is on the full
// timestamp: legs the source recorded a second apart stay apart, and an
// interest leg without a principal leg at the same instant is an orphan,
// logged and excluded.
func BuildPayments(moves []legacy.Move, loanList []Loan, idx CategoryResolver, cfg *config.Config, logger *slog.Logger) (*PaymentsResult, error) {
	filtered := legacy.FilterMoves(moves, func(m legacy.Move) bool {
		return m.MoveType == legacy.MoveTypeExpense &&
			(m.TrxType == legacy.TrxTypeExpense || m.TrxType == legacy.TrxTypeLoanInterestPay) &&
			(m.AccountType == legacy.AccountTypeLoanPrincipal || m.AccountType == legacy.AccountTypeLoanInterest)
	})
	if len(filtered) == 0 {
		return nil, ErrNoPayments
	}

	loanByName := make(map[string]int, len(loanList))
	for _, l := range loanList {
		loanByName[strings.ToUpper(l.Name)] = l.ID
	}

	payments := make(map[paymentKey]*payment)
	for _, m := range filtered {
		base := names.LoanBase(m.AccountName)
		loanID, ok := loanByName[strings.ToUpper(base)]
		if !ok {
			continue
		}

		key := paymentKey{loanID: loanID, date: sqlgen.FormatDateTime(m.MovedAt)}
		p, ok := payments[key]
		if !ok {
			p = &payment{
				loanID:     loanID,
				date:       key.date,
				categoryID: idx.Lookup(base),
			}
			payments[key] = p
		}

		amount := m.Amount.Abs()
		switch m.AccountType {
		case legacy.AccountTypeLoanPrincipal:
			p.principal = p.principal.Add(amount)
			p.hasPrincipal = true
		case legacy.AccountTypeLoanInterest:
			p.interest = p.interest.Add(amount)
		}
	}

	keys := make([]paymentKey, 0, len(payments))
	for k := range payments {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].loanID != keys[j].loanID {
			return keys[i].loanID < keys[j].loanID
		}
		return keys[i].date < keys[j].date
	})

	result := &PaymentsResult{}
	var paymentRows, trxRows []string

	for _, k := range keys {
		p := payments[k]
		if !p.hasPrincipal {
			result.Orphans++
			logger.Warn("interest leg without principal, dropped",
				"loan_id", p.loanID,
				"date", p.date,
				"interest", p.interest.String())
			continue
		}

		total := p.principal.Add(p.interest)

		paymentRows = append(paymentRows, fmt.Sprintf("(NULL,%s,%s,'%s',NULL,%d,%d,NULL)",
			p.principal.String(), p.interest.String(), p.date,
			p.loanID, cfg.Target.CashAccountID))

		trxRows = append(trxRows, fmt.Sprintf("(NULL,'expense',%s,'%s','%s',%d,%d,NULL,%s)",
			total.String(), p.date, sqlgen.Escape(paymentDescription),
			cfg.Target.UserID, cfg.Target.CashAccountID,
			sqlgen.IntOrNull(p.categoryID)))
	}

	result.Count = len(paymentRows)
	logger.Info("loan payments built", "count", result.Count, "orphans", result.Orphans)

	if len(paymentRows) == 0 {
		// Every group was an interest-only orphan. Not an error: the filter
		// did match rows, there is just nothing to insert.
		return result, nil
	}

	result.PaymentsSQL = sqlgen.Insert("loan_payments", []string{
		"id", "principal_amount", "interest_amount", "payment_date",
		"note", "loan_id", "account_id", "transaction_id",
	}, paymentRows)

	result.TransactionsSQL = sqlgen.Insert("transactions", []string{
		"id", "type", "amount", "date", "description",
		"user_id", "account_id", "to_account_id", "category_id",
	}, trxRows)

	result.BackfillSQL = fmt.Sprintf(`UPDATE loan_payments lp
JOIN transactions t ON (
  t.type = 'expense'
  AND t.account_id = %d
  AND t.amount = lp.principal_amount + lp.interest_amount
  AND DATE(t.date) = DATE(lp.payment_date)
)
SET lp.transaction_id = t.id
WHERE lp.transaction_id IS NULL;`, cfg.Target.CashAccountID)

	result.BalanceSQL = `UPDATE loans l
JOIN (
  SELECT loan_id, SUM(principal_amount) total_paid
  FROM loan_payments
  GROUP BY loan_id
) p ON p.loan_id = l.id
SET l.balance = l.total_amount - p.total_paid;`

	result.InterestSQL = `UPDATE loans l
JOIN (
  SELECT loan_id, SUM(interest_amount) total_interest
  FROM loan_payments
  GROUP BY loan_id
) i ON i.loan_id = l.id
SET l.interest_amount = i.total_interest;`

	result.CloseSQL = `UPDATE loans
SET status = 'closed'
WHERE balance <= 0
AND status <> 'closed';`

	return result, nil
}
