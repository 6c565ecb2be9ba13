package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"rentflow-backend/internal/backup"
	"rentflow-backend/internal/db"
	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/repository"
	"rentflow-backend/internal/rollover"
	"rentflow-backend/internal/service"

	"github.com/spf13/cobra"
)

// openDB connects using DATABASE_URL from the environment or .env file.
func openDB(ctx context.Context) (*db.Postgres, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, errors.New("DATABASE_URL not set in environment or .env file")
	}
	return db.New(ctx, dsn)
}

func logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func newEngine(pg *db.Postgres) *rollover.Engine {
	return rollover.NewEngine(
		repository.TenantRepository{DB: pg},
		repository.RentRepository{DB: pg},
		repository.ExpenseRepository{DB: pg},
		logger(),
	)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pg.Close()
			if err := pg.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
}

// addPeriodFlags registers --year and --month, defaulting to the current month.
func addPeriodFlags(cmd *cobra.Command, year, month *int) {
	now := time.Now()
	cmd.Flags().IntVar(year, "year", now.Year(), "billing year")
	cmd.Flags().IntVar(month, "month", int(now.Month()), "billing month (1-12)")
}

func syncRentCmd() *cobra.Command {
	var year, month int
	cmd := &cobra.Command{
		Use:   "sync-rent",
		Short: "Create missing rent entries for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pg.Close()
			n, err := newEngine(pg).SyncRentForPeriod(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d rent entries for %04d-%02d\n", n, year, month)
			return nil
		},
	}
	addPeriodFlags(cmd, &year, &month)
	return cmd
}

func syncExpensesCmd() *cobra.Command {
	var year, month int
	cmd := &cobra.Command{
		Use:   "sync-expenses",
		Short: "Copy the previous month's expenses into a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pg.Close()
			n, err := newEngine(pg).SyncExpensesFromPreviousMonth(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %d expenses into %04d-%02d\n", n, year, month)
			return nil
		},
	}
	addPeriodFlags(cmd, &year, &month)
	return cmd
}

func backupCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export every table to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pg.Close()
			svc := backup.Service{Store: repository.BackupRepository{DB: pg}, Logger: logger()}
			snap, err := svc.Export(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return backup.WriteJSON(cmd.OutOrStdout(), snap)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := backup.WriteJSON(f, snap); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (stdout when empty)")
	return cmd
}

func restoreCmd() *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Replace all data with a backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(in)
			if err != nil {
				return err
			}
			defer f.Close()
			snap, err := backup.ReadJSON(f)
			if err != nil {
				return err
			}

			pg, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pg.Close()
			svc := backup.Service{Store: repository.BackupRepository{DB: pg}, Logger: logger()}
			counts, err := svc.Restore(cmd.Context(), snap)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d tenants, %d rent entries, %d expenses\n",
				counts.Tenants, counts.RentEntries, counts.Expenses)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "backup file to restore")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func createUserCmd() *cobra.Command {
	var name, email, password, role string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a password login",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pg.Close()
			svc := service.AuthService{Users: repository.UserRepository{DB: pg}, Logger: logger()}
			user, err := svc.CreateUser(cmd.Context(), service.CreateUserInput{
				Name:     name,
				Email:    email,
				Password: password,
				Role:     domain.UserRole(role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) with role %s\n", user.Email, user.ID, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "password (at least 8 characters)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "admin, manager or viewer")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
