package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eed-project/eedx/pkg/db/postgres"
	"github.com/eed-project/eedx/pkg/logging"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database bootstrap",
}

var dbInitCmd = &cobra.Command{
	Use:   "init <database>",
	Short: "Create the named database when missing",
	Long: `Create the named database when it does not exist. POSTGRES_URL must
point at a maintenance database (typically postgres) on the same server.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger, err := logging.New()
		if err != nil {
			return err
		}

		client, err := postgres.New(ctx, logger)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer client.Close()

		if err := client.CreateDbIfNotExists(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("database %s ready\n", args[0])
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbInitCmd)
	rootCmd.AddCommand(dbCmd)
}
