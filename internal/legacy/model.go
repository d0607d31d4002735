// Package legacy loads the JSON export of the old personal-finance schema
// and exposes it as flat in-memory tables plus the filtered views the
// migration inspects and transforms.
package legacy

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Move type of a legacy account: 1 behaves as an income category, 2 as an
// expense category.
const (
	MoveTypeIncome  = 1
	MoveTypeExpense = 2
)

// Account types of the old schema.
const (
	AccountTypeCash          = 1
	AccountTypeSavings       = 2
	AccountTypeLoanSource    = 3
	AccountTypeLoanPrincipal = 4
	AccountTypeLoanInterest  = 5
)

// Transaction subtypes of the old schema.
const (
	TrxTypeIncome             = 1
	TrxTypeExpense            = 2
	TrxTypeSavingsDeposit     = 4
	TrxTypeWithdrawal         = 5
	TrxTypeLoanInterestPay    = 6
	TrxTypeLoanDisbursementFx = 7
)

// Account is one row of the legacy accounts table. State is a pointer
// because old exports omit it; absent means active.
type Account struct {
	ID          int    `json:"id"`
	MoveType    int    `json:"moveType"`
	AccountType int    `json:"accountType"`
	Name        string `json:"name"`
	State       *int   `json:"state"`
}

// Active reports whether the account was active in the old schema,
// defaulting to active when the export carries no state.
func (a Account) Active() bool {
	return a.State == nil || *a.State == 1
}

// Move is one row of the legacy moves table with its embedded account
// reference already denormalized into flat columns.
type Move struct {
	ID          int
	TrxType     int
	MoveType    int
	AccountType int
	Amount      decimal.Decimal
	MovedAt     time.Time
	Title       string
	Remark      string
	AccountName string
	CategoryID  *int
}

// rawMove mirrors the wire shape of a move, one nested level deep.
type rawMove struct {
	ID       int             `json:"id"`
	TrxType  int             `json:"trxType"`
	MoveType int             `json:"moveType"`
	Amount   decimal.Decimal `json:"amount"`
	MovedAt  string          `json:"movedAt"`
	Title    string          `json:"title"`
	Remark   string          `json:"remark"`
	Account  *struct {
		ID          *int   `json:"id"`
		AccountType int    `json:"accountType"`
		Name        string `json:"name"`
	} `json:"account"`
}

// timestampLayouts covers the datetime renderings observed in old exports.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (r rawMove) flatten() (Move, error) {
	movedAt, err := parseTimestamp(r.MovedAt)
	if err != nil {
		return Move{}, fmt.Errorf("move %d: %w", r.ID, err)
	}

	m := Move{
		ID:       r.ID,
		TrxType:  r.TrxType,
		MoveType: r.MoveType,
		Amount:   r.Amount,
		MovedAt:  movedAt,
		Title:    r.Title,
		Remark:   r.Remark,
	}
	if r.Account != nil {
		m.AccountType = r.Account.AccountType
		m.AccountName = r.Account.Name
		m.CategoryID = r.Account.ID
	}
	return m, nil
}
