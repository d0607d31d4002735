// Package sqlgen renders the pieces of the generated MySQL script: literal
// escaping, bulk INSERT statements, the schema seed block and the final
// hand-verified correction block.
package sqlgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frov1981/financial2026/pkg/config"
)

// DateTimeLayout is the MySQL DATETIME rendering used everywhere a legacy
// timestamp enters the script.
const DateTimeLayout = "2006-01-02 15:04:05"

// FormatDateTime renders a timestamp for the script, always in UTC.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(DateTimeLayout)
}

// Escape makes free text safe inside a single-quoted SQL literal: newlines
// of any flavor become a literal \n escape and single quotes are doubled.
func Escape(text string) string {
	s := strings.ReplaceAll(text, "\r\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\n`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return strings.ReplaceAll(s, "'", "''")
}

// QuoteOrNull renders an already-escaped string literal, or NULL when empty.
func QuoteOrNull(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + s + "'"
}

// IntOrNull renders a nullable integer column value.
func IntOrNull(v *int) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%d", *v)
}

// Insert renders one multi-row INSERT statement. Rows are pre-rendered
// parenthesized tuples.
func Insert(table string, columns []string, rows []string) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ","))
	b.WriteString(")\nVALUES\n")
	b.WriteString(strings.Join(rows, ",\n"))
	b.WriteString(";")
	return b.String()
}

// Seed renders the destructive preamble: truncate the target tables with
// foreign key checks off, then insert the seed accounts.
func Seed(cfg *config.Config) string {
	var b strings.Builder
	b.WriteString("SET FOREIGN_KEY_CHECKS = 0;\n")
	for _, table := range cfg.Seed.TruncateTables {
		fmt.Fprintf(&b, "TRUNCATE TABLE %s;\n", table)
	}
	b.WriteString("SET FOREIGN_KEY_CHECKS = 1;\n\n")

	rows := make([]string, 0, len(cfg.Seed.Accounts))
	for _, a := range cfg.Seed.Accounts {
		rows = append(rows, fmt.Sprintf("(%d,'%s','%s',0,1,%d)",
			a.ID, Escape(a.Name), a.Type, cfg.Target.UserID))
	}
	b.WriteString(Insert("accounts",
		[]string{"id", "name", "type", "balance", "is_active", "user_id"}, rows))
	return b.String()
}

// FinalFixes renders the manual-correction block that closes the script: a
// single hand-verified amount fix, a balance reset and the full balance
// recomputation from the migrated transactions, inside one transaction.
func FinalFixes(cfg *config.Config) string {
	user := cfg.Target.UserID
	return fmt.Sprintf(`START TRANSACTION;

/* =========================================================
   1) Fix the amount of the hand-verified transaction
========================================================= */
UPDATE transactions
SET amount = %s
WHERE id = %d;

/* =========================================================
   2) Reset every account balance of the migrated user
========================================================= */
UPDATE accounts
SET balance = 0
WHERE user_id = %d;

/* =========================================================
   3) Apply INCOME and EXPENSE
      income  -> adds
      expense -> subtracts
========================================================= */
UPDATE accounts a
JOIN (
    SELECT
        account_id,
        SUM(
            CASE
                WHEN type = 'income' THEN amount
                WHEN type = 'expense' THEN -amount
                ELSE 0
            END
        ) AS balance_delta
    FROM transactions
    WHERE user_id = %d
    GROUP BY account_id
) t ON t.account_id = a.id
SET a.balance = a.balance + t.balance_delta;

/* =========================================================
   4) Apply TRANSFERS (source)
      account_id -> subtracts
========================================================= */
UPDATE accounts a
JOIN (
    SELECT
        account_id,
        SUM(amount) AS total_out
    FROM transactions
    WHERE user_id = %d
      AND type = 'transfer'
    GROUP BY account_id
) t ON t.account_id = a.id
SET a.balance = a.balance - t.total_out;

/* =========================================================
   5) Apply TRANSFERS (destination)
      to_account_id -> adds
========================================================= */
UPDATE accounts a
JOIN (
    SELECT
        to_account_id,
        SUM(amount) AS total_in
    FROM transactions
    WHERE user_id = %d
      AND type = 'transfer'
      AND to_account_id IS NOT NULL
    GROUP BY to_account_id
) t ON t.to_account_id = a.id
SET a.balance = a.balance + t.total_in;

COMMIT;`,
		cfg.Fixup.Amount.String(), cfg.Fixup.TransactionID,
		user, user, user, user)
}

// Assemble joins the script sections in order, dropping empty ones, under a
// header identifying the run.
func Assemble(runID uuid.UUID, generatedAt time.Time, sections ...string) string {
	parts := make([]string, 0, len(sections)+1)
	parts = append(parts, fmt.Sprintf("-- migration run %s generated at %s",
		runID, FormatDateTime(generatedAt)))
	for _, s := range sections {
		s = strings.TrimSpace(s)
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n") + "\n"
}
