package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eed-project/eedx/pkg/db"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Maintain named country groupings",
}

var aggregateAddCmd = &cobra.Command{
	Use:   "add <name> <country>...",
	Short: "Add countries to an aggregate, creating it on first use",
	Long: `Add countries to a named aggregate. Each country argument is an id,
an exact name or an ISO code. Members already present are skipped.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name := args[0]

		d, err := setup(ctx)
		if err != nil {
			return err
		}
		defer d.Store.Close()

		for _, key := range args[1:] {
			country, err := d.Store.GetCountry(ctx, key)
			if err != nil {
				if errors.Is(err, db.ErrNotFound) {
					return fmt.Errorf("country %q not found", key)
				}
				return err
			}

			added, err := d.Store.AddMembership(ctx, name, country.ID)
			if err != nil {
				return err
			}
			if added {
				fmt.Printf("%s: added %s (%d)\n", name, country.Name, country.ID)
			} else {
				fmt.Printf("%s: %s (%d) already a member\n", name, country.Name, country.ID)
			}
		}
		return nil
	},
}

var aggregateMembersCmd = &cobra.Command{
	Use:   "members <name>",
	Short: "List the member country ids of an aggregate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		d, err := setup(ctx)
		if err != nil {
			return err
		}
		defer d.Store.Close()

		ids, err := d.Store.MembersOf(ctx, args[0])
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Printf("aggregate %q has no members\n", args[0])
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	aggregateCmd.AddCommand(aggregateAddCmd, aggregateMembersCmd)
	rootCmd.AddCommand(aggregateCmd)
}
