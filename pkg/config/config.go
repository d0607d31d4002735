// Package config holds the migration run configuration: fixed file locations,
// the seed rows for the target schema and the per-dataset lookup tables.
// There are no flags and no environment variables; a different dataset is
// migrated by editing Default().
package config

import "github.com/shopspring/decimal"

// Config holds all migration configuration
type Config struct {
	Paths    PathsConfig
	Target   TargetConfig
	Seed     SeedConfig
	Transfer TransferConfig
	Fixup    FixupConfig
}

// PathsConfig fixes every input and output location relative to the
// working directory.
type PathsConfig struct {
	InputJSON   string
	OutputDir   string
	SQLFile     string
	WorkbookXLS string
}

// TargetConfig identifies the rows of the new schema that legacy data is
// attached to.
type TargetConfig struct {
	// UserID owns every migrated row.
	UserID int
	// CashAccountID is the bank account every income/expense transaction and
	// every loan disbursement is booked against.
	CashAccountID int
}

// SeedAccount is one row of the new accounts table, inserted before any
// migrated data.
type SeedAccount struct {
	ID   int
	Name string
	Type string
}

// SeedConfig lists the tables to truncate and the accounts to seed.
type SeedConfig struct {
	TruncateTables []string
	Accounts       []SeedAccount
}

// TransferConfig maps letters-only normalized legacy account names to the
// counterpart account id of a savings or withdrawal transfer. Names that
// resolve to no entry are dropped by the transfer builders.
type TransferConfig struct {
	AccountByName map[string]int
}

// FixupConfig drives the hand-verified correction block appended to the end
// of the generated script.
type FixupConfig struct {
	TransactionID int
	Amount        decimal.Decimal
}

// Default returns the configuration for the 2026 snapshot.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			InputJSON:   "data/data.json",
			OutputDir:   "out",
			SQLFile:     "migration.sql",
			WorkbookXLS: "views.xlsx",
		},
		Target: TargetConfig{
			UserID:        1,
			CashAccountID: 2,
		},
		Seed: SeedConfig{
			TruncateTables: []string{
				"loans",
				"loan_payments",
				"transactions",
				"categories",
				"accounts",
				"auth_codes",
			},
			Accounts: []SeedAccount{
				{ID: 1, Name: "Efectivo", Type: "cash"},
				{ID: 2, Name: "Banco Guayaquil", Type: "bank"},
				{ID: 3, Name: "Banco Pichincha", Type: "bank"},
				{ID: 4, Name: "Banco Conecel", Type: "bank"},
				{ID: 5, Name: "Banquito", Type: "bank"},
				{ID: 6, Name: "Mastercard", Type: "card"},
			},
		},
		Transfer: TransferConfig{
			AccountByName: map[string]int{
				"AHORRO CONECEL":      4,
				"AHORRO FLEX":         4,
				"CERT APORTA CONECEL": 4,
				"BANQUITO FERTIZA":    5,
				"BCO PICHINCHA":       2,
			},
		},
		Fixup: FixupConfig{
			TransactionID: 3,
			Amount:        decimal.RequireFromString("5445.27"),
		},
	}
}
