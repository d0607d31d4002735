package legacy

import (
	"sort"
	"strconv"
)

// AccountRow is one line of an account inspection view.
type AccountRow struct {
	ID          int    `csv:"id"`
	MoveType    int    `csv:"moveType"`
	AccountType int    `csv:"accountType"`
	Name        string `csv:"name"`
	State       *int   `csv:"state"`
}

// MoveRow is one line of a move inspection view.
type MoveRow struct {
	ID          int    `csv:"id"`
	TrxType     int    `csv:"trxType"`
	MoveType    int    `csv:"moveType"`
	AccountType int    `csv:"accountType"`
	Amount      string `csv:"amount"`
	MovedAt     string `csv:"movedAt"`
	AccountName string `csv:"accountName"`
}

// View is one filtered projection of the snapshot, ready for the report
// writers: Records keeps the typed rows for CSV marshalling, Cells the
// rendered strings for the fixed-width and workbook outputs.
type View struct {
	Name    string
	Headers []string
	Records any
	Cells   [][]string
}

var (
	accountHeaders = []string{"id", "moveType", "accountType", "name", "state"}
	moveHeaders    = []string{"id", "trxType", "moveType", "accountType", "amount", "movedAt", "accountName"}
)

// Views produces the nine inspection projections of the snapshot in their
// output order.
func Views(s *Snapshot) []View {
	return []View{
		accountView("01_acc_income", s.Accounts, func(a Account) bool {
			return a.MoveType == MoveTypeIncome
		}),
		accountView("01_acc_expense", s.Accounts, func(a Account) bool {
			return a.MoveType == MoveTypeExpense
		}),
		moveView("02_mov_income", s.Moves, func(m Move) bool {
			return m.MoveType == MoveTypeIncome && m.AccountType == AccountTypeCash && m.TrxType == TrxTypeIncome
		}),
		moveView("02_mov_expense", s.Moves, func(m Move) bool {
			return m.MoveType == MoveTypeExpense && m.AccountType == AccountTypeCash && m.TrxType == TrxTypeExpense
		}),
		moveView("03_loan_income", s.Moves, func(m Move) bool {
			return m.MoveType == MoveTypeIncome && m.AccountType == AccountTypeLoanSource &&
				(m.TrxType == TrxTypeIncome || m.TrxType == TrxTypeLoanDisbursementFx)
		}),
		moveView("03_paym_expense", s.Moves, func(m Move) bool {
			return m.MoveType == MoveTypeExpense && m.AccountType == AccountTypeLoanPrincipal &&
				(m.TrxType == TrxTypeExpense || m.TrxType == TrxTypeLoanInterestPay)
		}),
		moveView("03_inte_expense", s.Moves, func(m Move) bool {
			return m.MoveType == MoveTypeExpense && m.AccountType == AccountTypeLoanInterest &&
				(m.TrxType == TrxTypeExpense || m.TrxType == TrxTypeLoanInterestPay)
		}),
		moveView("03_savings", s.Moves, func(m Move) bool {
			return m.MoveType == MoveTypeIncome && m.AccountType == AccountTypeSavings &&
				(m.TrxType == TrxTypeIncome || m.TrxType == TrxTypeSavingsDeposit)
		}),
		moveView("03_withdrawals", s.Moves, func(m Move) bool {
			return m.TrxType == TrxTypeWithdrawal && m.AccountType == AccountTypeSavings &&
				(m.MoveType == MoveTypeIncome || m.MoveType == MoveTypeExpense)
		}),
	}
}

func accountView(name string, accounts []Account, keep func(Account) bool) View {
	var rows []AccountRow
	for _, a := range accounts {
		if !keep(a) {
			continue
		}
		rows = append(rows, AccountRow{
			ID:          a.ID,
			MoveType:    a.MoveType,
			AccountType: a.AccountType,
			Name:        a.Name,
			State:       a.State,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		state := ""
		if r.State != nil {
			state = strconv.Itoa(*r.State)
		}
		cells = append(cells, []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.MoveType),
			strconv.Itoa(r.AccountType),
			r.Name,
			state,
		})
	}
	return View{Name: name, Headers: accountHeaders, Records: rows, Cells: cells}
}

func moveView(name string, moves []Move, keep func(Move) bool) View {
	var rows []MoveRow
	for _, m := range moves {
		if !keep(m) {
			continue
		}
		rows = append(rows, MoveRow{
			ID:          m.ID,
			TrxType:     m.TrxType,
			MoveType:    m.MoveType,
			AccountType: m.AccountType,
			Amount:      m.Amount.String(),
			MovedAt:     m.MovedAt.UTC().Format("2006-01-02 15:04:05"),
			AccountName: m.AccountName,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].AccountName < rows[j].AccountName })

	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.TrxType),
			strconv.Itoa(r.MoveType),
			strconv.Itoa(r.AccountType),
			r.Amount,
			r.MovedAt,
			r.AccountName,
		})
	}
	return View{Name: name, Headers: moveHeaders, Records: rows, Cells: cells}
}

// FilterMoves returns the moves matching keep, preserving input order.
func FilterMoves(moves []Move, keep func(Move) bool) []Move {
	var out []Move
	for _, m := range moves {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}
