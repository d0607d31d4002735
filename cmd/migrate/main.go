// Command migrate performs the one-time migration of a legacy
// personal-finance JSON export into the normalized schema: it writes the
// inspection dumps and the SQL script, then exits. It takes no flags; paths
// and lookup tables live in pkg/config.
package main

import (
	"log/slog"
	"os"

	"github.com/frov1981/financial2026/internal/migration"
	"github.com/frov1981/financial2026/pkg/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := config.Default()
	if err := migration.New(cfg, logger).Run(); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("migration complete")
}
