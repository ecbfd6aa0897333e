package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/billed/internal/config"
	"github.com/MrJamesThe3rd/billed/internal/database"
)

// app carries what subcommands share. The database is opened on first use so
// that --help works without one.
type app struct {
	cfg *config.Config
	db  *sql.DB
}

func (a *app) database() (*sql.DB, error) {
	if a.db != nil {
		return a.db, nil
	}

	db, err := database.New(a.cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	a.db = db

	return db, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:   "billedctl",
		Short: "Operator tasks for the Billed expense API",
		Long: `billedctl runs maintenance tasks against the Billed database:
applying the schema, creating accounts and exporting bills for accounting.

Connection settings are read from the environment (DB_HOST, DB_PORT, DB_USER,
DB_PASSWORD, DB_NAME), optionally through a .env file.`,
		SilenceUsage: true,
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}

	root.AddCommand(
		newMigrateCmd(a),
		newUserCmd(a),
		newExportCmd(a),
	)

	return root
}
