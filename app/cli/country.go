package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eed-project/eedx/pkg/db"
)

var countryCmd = &cobra.Command{
	Use:   "country",
	Short: "Inspect and maintain the country master",
}

var countryListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List persisted countries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		d, err := setup(ctx)
		if err != nil {
			return err
		}
		defer d.Store.Close()

		countries, err := d.Store.ListCountries(ctx)
		if err != nil {
			return err
		}
		for _, c := range countries {
			fmt.Printf("%d\t%s\t%s\n", c.ID, c.ISOCode, c.Name)
		}
		return nil
	},
}

var countryRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a country and all of its facts and memberships",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid country id %q", args[0])
		}

		d, err := setup(ctx)
		if err != nil {
			return err
		}
		defer d.Store.Close()

		if err := d.Store.RemoveCountry(ctx, int32(id)); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("country %d not found", id)
			}
			return err
		}
		fmt.Printf("country %d removed\n", id)
		return nil
	},
}

func init() {
	countryCmd.AddCommand(countryListCmd, countryRemoveCmd)
	rootCmd.AddCommand(countryCmd)
}
