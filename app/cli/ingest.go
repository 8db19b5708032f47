package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eed-project/eedx/pkg/ingest"
	"github.com/eed-project/eedx/pkg/utils"
	"github.com/eed-project/eedx/pkg/worldbank"
)

var (
	ingestStartYear int
	ingestEndYear   int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch the provider window and replace the fact table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		d, err := setup(ctx)
		if err != nil {
			return err
		}
		defer d.Store.Close()

		runner := ingest.NewRunner(d.Logger, d.Catalog, worldbank.NewClient(d.Logger), d.Store,
			ingest.WithDiagnosticsDir(utils.Env("DIAG_DIR", "diagnostics")))

		rpt, err := runner.RunOnce(ctx, ingestStartYear, ingestEndYear)
		if err != nil {
			return err
		}

		fmt.Printf("run %s %s: %d facts loaded, %d countries inserted, %d unresolved\n",
			rpt.ID, rpt.State, rpt.FactsLoaded, rpt.CountriesInserted, rpt.UnresolvedCount)
		return nil
	},
}

func init() {
	ingestCmd.Flags().IntVar(&ingestStartYear, "start", utils.EnvInt("EEDX_START_YEAR", 2010), "first year of the window")
	ingestCmd.Flags().IntVar(&ingestEndYear, "end", utils.EnvInt("EEDX_END_YEAR", 2019), "last year of the window (inclusive)")
	rootCmd.AddCommand(ingestCmd)
}
