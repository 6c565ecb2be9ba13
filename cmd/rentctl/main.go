package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "rentctl",
		Short:        "RentFlow operator tool",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		migrateCmd(),
		syncRentCmd(),
		syncExpensesCmd(),
		backupCmd(),
		restoreCmd(),
		createUserCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
