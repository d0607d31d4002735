// Package migration orchestrates the one-shot schema migration: load the
// legacy export, dump the inspection views, run every builder in dependency
// order and assemble the final SQL script.
package migration

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frov1981/financial2026/internal/domain/categories"
	"github.com/frov1981/financial2026/internal/domain/loans"
	"github.com/frov1981/financial2026/internal/domain/transactions"
	"github.com/frov1981/financial2026/internal/domain/transfers"
	"github.com/frov1981/financial2026/internal/legacy"
	"github.com/frov1981/financial2026/internal/report"
	"github.com/frov1981/financial2026/internal/sqlgen"
	"github.com/frov1981/financial2026/pkg/config"
)

// Runner executes one migration run.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a Runner.
func New(cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger}
}

// Run performs the whole migration. Any builder error is fatal: no partial
// script is written.
func (r *Runner) Run() error {
	runID := uuid.New()
	logger := r.logger.With("run_id", runID.String())

	snap, err := legacy.Load(r.cfg.Paths.InputJSON, logger)
	if err != nil {
		return err
	}

	script, views, err := r.generate(snap, runID, logger)
	if err != nil {
		return err
	}

	writer, err := report.NewWriter(r.cfg.Paths.OutputDir, logger)
	if err != nil {
		return err
	}
	if err := writer.WriteAll(views, r.cfg.Paths.WorkbookXLS); err != nil {
		return err
	}
	return writer.WriteSQL(r.cfg.Paths.SQLFile, script)
}

// generate runs the builders in dependency order and assembles the script.
// Nothing touches the filesystem here, so the whole transformation is
// testable over an in-memory snapshot.
func (r *Runner) generate(snap *legacy.Snapshot, runID uuid.UUID, logger *slog.Logger) (string, []legacy.View, error) {
	views := legacy.Views(snap)

	categoriesSQL, cats, err := categories.Build(snap.Accounts, r.cfg, logger)
	if err != nil {
		return "", nil, fmt.Errorf("categories: %w", err)
	}
	idx := categories.NewIndex(cats, logger)

	incomeSQL, err := transactions.BuildIncome(snap.Moves, idx, r.cfg, logger)
	if err != nil {
		return "", nil, fmt.Errorf("income transactions: %w", err)
	}
	expenseSQL, err := transactions.BuildExpense(snap.Moves, idx, r.cfg, logger)
	if err != nil {
		return "", nil, fmt.Errorf("expense transactions: %w", err)
	}

	loanResult, err := loans.Build(snap.Moves, idx, r.cfg, logger)
	if err != nil {
		return "", nil, fmt.Errorf("loans: %w", err)
	}
	paymentResult, err := loans.BuildPayments(snap.Moves, loanResult.Loans, idx, r.cfg, logger)
	if err != nil {
		return "", nil, fmt.Errorf("loan payments: %w", err)
	}

	savingsSQL := transfers.BuildSavings(snap.Moves, r.cfg, logger)
	withdrawalsSQL := transfers.BuildWithdrawals(snap.Moves, r.cfg, logger)

	script := sqlgen.Assemble(runID, time.Now(),
		sqlgen.Seed(r.cfg),
		categoriesSQL,
		incomeSQL,
		expenseSQL,
		loanResult.LoansSQL,
		loanResult.TransactionsSQL,
		loanResult.BackfillSQL,
		paymentResult.PaymentsSQL,
		paymentResult.TransactionsSQL,
		paymentResult.BackfillSQL,
		paymentResult.BalanceSQL,
		paymentResult.InterestSQL,
		paymentResult.CloseSQL,
		savingsSQL,
		withdrawalsSQL,
		sqlgen.FinalFixes(r.cfg),
	)
	return script, views, nil
}
