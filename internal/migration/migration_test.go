package migration

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frov1981/financial2026/internal/domain/categories"
	"github.com/frov1981/financial2026/internal/domain/loans"
	"github.com/frov1981/financial2026/internal/domain/transactions"
	"github.com/frov1981/financial2026/pkg/config"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const fixture = `{
	"accounts": [
		{"id": 1, "moveType": 1, "accountType": 1, "name": "SUELDO CONECEL", "state": 1},
		{"id": 2, "moveType": 2, "accountType": 1, "name": "PAGO LUZ", "state": 1},
		{"id": 3, "moveType": 1, "accountType": 3, "name": "CAR LOAN", "state": 1}
	],
	"moves": [
		{"id": 10, "trxType": 1, "moveType": 1, "amount": 1200.50, "movedAt": "2023-01-31T12:00:00.000Z",
		 "title": "Sueldo", "remark": "enero",
		 "account": {"id": 1, "accountType": 1, "name": "SUELDO CONECEL"}},
		{"id": 11, "trxType": 2, "moveType": 2, "amount": -45.80, "movedAt": "2023-02-02T08:00:00.000Z",
		 "title": "Luz", "remark": "",
		 "account": {"id": 2, "accountType": 1, "name": "PAGO LUZ"}},
		{"id": 12, "trxType": 1, "moveType": 1, "amount": 1000, "movedAt": "2023-02-05T09:00:00.000Z",
		 "title": "Prestamo", "remark": "",
		 "account": {"id": 3, "accountType": 3, "name": "CAR LOAN"}},
		{"id": 13, "trxType": 7, "moveType": 1, "amount": 500, "movedAt": "2023-01-05T09:00:00.000Z",
		 "title": "Ajuste", "remark": "",
		 "account": {"id": 3, "accountType": 3, "name": "CAR LOAN"}},
		{"id": 14, "trxType": 2, "moveType": 2, "amount": -100, "movedAt": "2023-03-05T09:00:00.000Z",
		 "title": "Cuota", "remark": "",
		 "account": {"id": 4, "accountType": 4, "name": "CAR LOAN (PAGOS)"}},
		{"id": 15, "trxType": 6, "moveType": 2, "amount": -12.50, "movedAt": "2023-03-05T09:00:00.000Z",
		 "title": "Interes", "remark": "",
		 "account": {"id": 5, "accountType": 5, "name": "CAR LOAN (INTERES)"}},
		{"id": 16, "trxType": 4, "moveType": 1, "amount": 300, "movedAt": "2023-04-01T10:00:00.000Z",
		 "title": "Ahorro", "remark": "",
		 "account": {"id": 6, "accountType": 2, "name": "AHORRO FLEX"}},
		{"id": 17, "trxType": 5, "moveType": 2, "amount": -80, "movedAt": "2023-05-01T10:00:00.000Z",
		 "title": "Retiro", "remark": "",
		 "account": {"id": 6, "accountType": 2, "name": "AHORRO FLEX"}}
	]
}`

func testConfig(t *testing.T, export string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(input, []byte(export), 0644))

	cfg := config.Default()
	cfg.Paths.InputJSON = input
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t, fixture)
	require.NoError(t, New(cfg, discard()).Run())

	raw, err := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, "migration.sql"))
	require.NoError(t, err)
	script := string(raw)

	assert.True(t, strings.HasPrefix(script, "-- migration run "))

	// Every section, in spec order.
	markers := []string{
		"SET FOREIGN_KEY_CHECKS = 0;",
		"INSERT INTO accounts ",
		"INSERT INTO categories ",
		"('income',1200.5,'2023-01-31 12:00:00'",
		"('expense',45.8,'2023-02-02 08:00:00'",
		"INSERT INTO loans ",
		"('income',1500,'2023-01-05 09:00:00','CAR LOAN'",
		"SET l.transaction_id = t.id",
		"INSERT INTO loan_payments ",
		"(NULL,'expense',112.5,'2023-03-05 09:00:00','Pago préstamo'",
		"SET lp.transaction_id = t.id",
		"SET l.balance = l.total_amount - p.total_paid;",
		"SET l.interest_amount = i.total_interest;",
		"SET status = 'closed'",
		"(NULL,'transfer',300,'2023-04-01 10:00:00'",
		"(NULL,'transfer',80,'2023-05-01 10:00:00'",
		"START TRANSACTION;",
		"COMMIT;",
	}
	last := -1
	for _, m := range markers {
		pos := strings.Index(script, m)
		require.GreaterOrEqual(t, pos, 0, "missing %q", m)
		assert.Greater(t, pos, last, "%q out of order", m)
		last = pos
	}

	// Disbursements grouped: one loan of 1500 starting at the earlier date.
	assert.Contains(t, script, "(1,'CAR LOAN',1500,0,0.00,'2023-01-05 09:00:00',NULL,true,1,2,NULL)")

	// Savings deposit goes 2 -> 4, withdrawal 4 -> 2.
	assert.Contains(t, script, "(NULL,'transfer',300,'2023-04-01 10:00:00','Ahorro',1,2,4,NULL)")
	assert.Contains(t, script, "(NULL,'transfer',80,'2023-05-01 10:00:00','Retiro',1,4,2,NULL)")

	// Inspection dumps and workbook land next to the script.
	for _, name := range []string{
		"01_acc_income.txt", "01_acc_expense.txt",
		"02_mov_income.txt", "02_mov_expense.txt",
		"03_loan_income.txt", "03_paym_expense.txt", "03_inte_expense.txt",
		"03_savings.txt", "03_withdrawals.txt",
		"01_acc_income.csv", "views.xlsx",
	} {
		_, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, name))
		assert.NoError(t, err, name)
	}
}

func TestRunFailsOnEmptyMoves(t *testing.T) {
	cfg := testConfig(t, `{
		"accounts": [{"id": 1, "moveType": 1, "accountType": 1, "name": "SUELDO", "state": 1}],
		"moves": []
	}`)

	err := New(cfg, discard()).Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, transactions.ErrNoTransactions)

	// No partial output: the builders abort before anything is written.
	_, statErr := os.Stat(cfg.Paths.OutputDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunFailsWithoutAccounts(t *testing.T) {
	cfg := testConfig(t, `{"accounts": [], "moves": []}`)
	err := New(cfg, discard()).Run()
	assert.ErrorIs(t, err, categories.ErrNoCategories)
}

func TestRunFailsWithoutLoans(t *testing.T) {
	cfg := testConfig(t, `{
		"accounts": [{"id": 1, "moveType": 1, "accountType": 1, "name": "SUELDO", "state": 1}],
		"moves": [
			{"id": 10, "trxType": 1, "moveType": 1, "amount": 10, "movedAt": "2023-01-01T00:00:00Z",
			 "account": {"id": 1, "accountType": 1, "name": "SUELDO"}},
			{"id": 11, "trxType": 2, "moveType": 2, "amount": -5, "movedAt": "2023-01-02T00:00:00Z",
			 "account": {"id": 1, "accountType": 1, "name": "SUELDO"}}
		]
	}`)
	err := New(cfg, discard()).Run()
	assert.ErrorIs(t, err, loans.ErrNoLoans)
}
