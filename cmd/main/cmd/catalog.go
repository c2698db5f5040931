package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Load the category hierarchy and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := app.Service.LoadCatalog(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, category := range catalog.Categories {
			fmt.Fprintf(out, "%s (%s)\n", category.Name, category.ID)
			for _, sub := range catalog.SubcategoriesOf(category.ID) {
				fmt.Fprintf(out, "  %s (%s)\n", sub.Name, sub.ID)
				for _, ssc := range catalog.SubSubCategoriesOf(category.ID, sub.ID) {
					fmt.Fprintf(out, "    %s (%s)\n", ssc.Name, ssc.ID)
				}
			}
		}
		fmt.Fprintf(out, "\n%d price categories, %d vehicles, %d cars\n",
			len(catalog.PriceCategories), len(catalog.Vehicles), len(catalog.Cars))
		return nil
	},
}
