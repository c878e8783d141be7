package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shopctl",
		Short:         "Maintenance tasks for the flower shop API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL DSN (defaults to POSTGRES_DSN)")

	root.AddCommand(migrateCmd())
	root.AddCommand(purgeResetTokensCmd())
	root.AddCommand(seedAdminCmd())
	root.AddCommand(vnpayCmd())
	return root
}
