package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	billStore "github.com/MrJamesThe3rd/billed/internal/bill/store"
	"github.com/MrJamesThe3rd/billed/internal/export"
	"github.com/MrJamesThe3rd/billed/internal/proof"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		status string
		email  string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy bills and their proofs for accounting",
		Example: `  # Accepted bills of every employee
  billedctl export --status accepted --out ./export

  # Everything filed by one employee
  billedctl export --email employee@test.tld --out ./export`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := exportFilter(status, email)
			if err != nil {
				return err
			}

			db, err := a.database()
			if err != nil {
				return err
			}

			proofs := proof.NewStorage(a.cfg.Storage.Dir, a.cfg.Storage.PublicURL)
			svc := export.NewService(billStore.New(db), proofs)

			items, err := svc.Export(cmd.Context(), filter, out)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), svc.GenerateSummary(items))
			fmt.Fprintf(cmd.ErrOrStderr(), "%d bills exported to %s\n", len(items), out)

			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only bills in this status (pending, accepted, refused)")
	cmd.Flags().StringVar(&email, "email", "", "only bills of this employee")
	cmd.Flags().StringVarP(&out, "out", "o", "export", "output directory")

	return cmd
}

func exportFilter(status, email string) (bill.ListFilter, error) {
	var filter bill.ListFilter

	if status != "" {
		s := bill.Status(status)
		if !s.Valid() {
			return filter, fmt.Errorf("unknown status %q", status)
		}

		filter.Status = &s
	}

	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		filter.Email = &email
	}

	return filter, nil
}
