package cli

import (
	"github.com/spf13/cobra"

	"github.com/eed-project/eedx/app/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app := api.Initialize(ctx)
		if err := api.NewServer(app); err != nil {
			return err
		}
		app.Start(ctx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
