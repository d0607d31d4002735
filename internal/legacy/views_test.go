package legacy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mv(id, trxType, moveType, accountType int, amount, name string) Move {
	return Move{
		ID:          id,
		TrxType:     trxType,
		MoveType:    moveType,
		AccountType: accountType,
		Amount:      decimal.RequireFromString(amount),
		MovedAt:     time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC),
		AccountName: name,
	}
}

func TestViewsFilterAndSort(t *testing.T) {
	active := 1
	snap := &Snapshot{
		Accounts: []Account{
			{ID: 2, MoveType: 1, AccountType: 1, Name: "ZETA", State: &active},
			{ID: 1, MoveType: 1, AccountType: 1, Name: "ALFA", State: &active},
			{ID: 3, MoveType: 2, AccountType: 1, Name: "GASTO", State: &active},
		},
		Moves: []Move{
			mv(10, TrxTypeIncome, MoveTypeIncome, AccountTypeCash, "100", "SUELDO"),
			mv(11, TrxTypeExpense, MoveTypeExpense, AccountTypeCash, "-50", "LUZ"),
			mv(12, TrxTypeIncome, MoveTypeIncome, AccountTypeLoanSource, "1000", "PRESTAMO"),
			mv(13, TrxTypeLoanDisbursementFx, MoveTypeIncome, AccountTypeLoanSource, "500", "PRESTAMO"),
			mv(14, TrxTypeExpense, MoveTypeExpense, AccountTypeLoanPrincipal, "-30", "PRESTAMO (PAGOS)"),
			mv(15, TrxTypeLoanInterestPay, MoveTypeExpense, AccountTypeLoanInterest, "-5", "PRESTAMO (INTERES)"),
			mv(16, TrxTypeSavingsDeposit, MoveTypeIncome, AccountTypeSavings, "200", "AHORRO FLEX"),
			mv(17, TrxTypeWithdrawal, MoveTypeExpense, AccountTypeSavings, "-80", "AHORRO FLEX"),
			// Does not belong to any view.
			mv(18, TrxTypeIncome, MoveTypeIncome, AccountTypeSavings+40, "1", "RARO"),
		},
	}

	views := Views(snap)
	require.Len(t, views, 9)

	byName := make(map[string]View, len(views))
	for _, v := range views {
		byName[v.Name] = v
	}

	accIncome := byName["01_acc_income"]
	require.Len(t, accIncome.Cells, 2)
	assert.Equal(t, "ALFA", accIncome.Cells[0][3], "accounts sorted by name")
	assert.Equal(t, "ZETA", accIncome.Cells[1][3])

	assert.Len(t, byName["01_acc_expense"].Cells, 1)
	assert.Len(t, byName["02_mov_income"].Cells, 1)
	assert.Len(t, byName["02_mov_expense"].Cells, 1)
	assert.Len(t, byName["03_loan_income"].Cells, 2)
	assert.Len(t, byName["03_paym_expense"].Cells, 1)
	assert.Len(t, byName["03_inte_expense"].Cells, 1)
	assert.Len(t, byName["03_savings"].Cells, 1)
	assert.Len(t, byName["03_withdrawals"].Cells, 1)

	savings := byName["03_savings"]
	require.Len(t, savings.Headers, 7)
	assert.Equal(t, "200", savings.Cells[0][4])
	assert.Equal(t, "2023-01-02 03:04:05", savings.Cells[0][5])

	records, ok := savings.Records.([]MoveRow)
	require.True(t, ok)
	assert.Equal(t, "AHORRO FLEX", records[0].AccountName)
}

func TestViewsEmptySnapshot(t *testing.T) {
	views := Views(&Snapshot{})
	require.Len(t, views, 9)
	for _, v := range views {
		assert.Empty(t, v.Cells, v.Name)
	}
}
