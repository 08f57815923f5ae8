package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/frenchcercle/cercle/internal/auth"
	"github.com/frenchcercle/cercle/internal/config"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage back-office admins",
}

var adminAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an admin account or reset its password",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Database.DSN == "" {
			return errors.New("DATABASE_DSN is required to store admin accounts")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		accounts, err := auth.OpenAccountStore(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer accounts.Close()

		if err := accounts.Upsert(ctx, email, password); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %s saved\n", email)
		return nil
	},
}

var adminRevokeCmd = &cobra.Command{
	Use:   "revoke-sessions",
	Short: "Sign out every admin session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Redis.Address == "" {
			return errors.New("REDIS_ADDRESS is required")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		sessions, err := auth.NewRedisSessionStore(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer sessions.Close()

		n, err := sessions.Purge(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d sessions revoked\n", n)
		return nil
	},
}

func init() {
	adminAddCmd.Flags().String("email", "", "admin email")
	adminAddCmd.Flags().String("password", "", "admin password (at least 8 characters)")
	_ = adminAddCmd.MarkFlagRequired("email")
	_ = adminAddCmd.MarkFlagRequired("password")

	adminCmd.AddCommand(adminAddCmd)
	adminCmd.AddCommand(adminRevokeCmd)
}
