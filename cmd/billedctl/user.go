package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/billed/internal/user"
	userStore "github.com/MrJamesThe3rd/billed/internal/user/store"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	cmd.AddCommand(newUserCreateCmd(a))

	return cmd
}

func newUserCreateCmd(a *app) *cobra.Command {
	var params struct {
		email    string
		password string
		kind     string
	}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an employee or admin account",
		Example: `  billedctl user create --email employee@test.tld --password employee
  billedctl user create --email admin@test.tld --password admin --type Admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.database()
			if err != nil {
				return err
			}

			tokens := user.NewTokens(a.cfg.Auth.Secret, a.cfg.Auth.TokenTTL)

			u, err := user.NewService(userStore.New(db), tokens).Create(cmd.Context(), user.CreateParams{
				Email:    params.email,
				Password: params.password,
				Type:     user.Type(params.kind),
			})
			if err != nil {
				return fmt.Errorf("creating user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s account %s\n", u.Type, u.Email)

			return nil
		},
	}

	cmd.Flags().StringVar(&params.email, "email", "", "account e-mail [REQUIRED]")
	cmd.Flags().StringVar(&params.password, "password", "", "account password [REQUIRED]")
	cmd.Flags().StringVar(&params.kind, "type", string(user.TypeEmployee), "account type (Employee or Admin)")

	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
