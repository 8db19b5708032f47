// Package cli implements the eedxctl administration commands: synchronous
// ingestion runs, country master maintenance and aggregate membership edits.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eed-project/eedx/pkg/catalog"
	"github.com/eed-project/eedx/pkg/db/postgres"
	"github.com/eed-project/eedx/pkg/db/store"
	"github.com/eed-project/eedx/pkg/logging"
	"github.com/eed-project/eedx/pkg/utils"
)

var rootCmd = &cobra.Command{
	Use:           "eedxctl",
	Short:         "Administer the eedx indicator store",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command under ctx.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// deps is the wiring shared by every data command.
type deps struct {
	Logger  *zap.Logger
	Catalog *catalog.Catalog
	Store   *store.Store
}

// setup connects to postgres and loads the reference catalog. The caller owns
// the returned store and must Close it.
func setup(ctx context.Context) (*deps, error) {
	logger, err := logging.New()
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(
		utils.Env("COUNTRIES_CSV", "data/Mcountries.csv"),
		utils.Env("INDICATORS_CSV", "data/Mindicators.csv"),
	)
	if err != nil {
		return nil, fmt.Errorf("load reference catalog: %w", err)
	}

	client, err := postgres.New(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	st := store.New(client, logger)
	if err := st.InitializeDB(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &deps{Logger: logger, Catalog: cat, Store: st}, nil
}
