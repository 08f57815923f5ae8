package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/frenchcercle/cercle/internal/admin"
	"github.com/frenchcercle/cercle/internal/config"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the registrant directory as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		repo, err := openRepository(ctx, cfg)
		if err != nil {
			return err
		}
		defer repo.Close()

		registrants, err := repo.ListRegistrants(ctx)
		if err != nil {
			return fmt.Errorf("failed to list registrants: %w", err)
		}

		var w io.Writer = cmd.OutOrStdout()
		if out != "-" {
			if out == "" {
				out = admin.ExportFilename(time.Now())
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}

		if err := admin.WriteCSV(w, registrants); err != nil {
			return err
		}
		if out != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d registrants written to %s\n", len(registrants), out)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "output file; - writes to stdout (default registrants_YYYY-MM-DD.csv)")
}
