package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"rideadmin/pricing/internal/listing"

	"github.com/spf13/cobra"
)

var (
	rideQuery listing.RideQuery
	rideFrom  string
	rideTo    string
)

var ridesCmd = &cobra.Command{
	Use:   "rides",
	Short: "List rides, filtered and paginated by the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := rideQuery

		var err error
		if query.From, err = parseDate(rideFrom); err != nil {
			return err
		}
		if query.To, err = parseDate(rideTo); err != nil {
			return err
		}

		catalog, err := app.Service.LoadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		query.CategoryID = lookupID(catalog.Categories, query.CategoryID)
		query.SubcategoryID = lookupID(catalog.SubcategoriesOf(query.CategoryID), query.SubcategoryID)

		page, err := app.Service.ListRides(cmd.Context(), query)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCATEGORY\tSUBCATEGORY\tSTATUS\tFARE\tPICKUP\tDROP")
		for _, ride := range page.Rides {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
				ride.ID,
				catalog.CategoryName(ride.Category),
				catalog.SubcategoryName(ride.SubCategory),
				ride.Status,
				ride.Fare,
				ride.Pickup,
				ride.Drop,
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%d rides, page %d of %d\n", page.TotalRides, page.Page, page.TotalPages)
		return nil
	},
}

func init() {
	ridesCmd.Flags().StringVar(&rideQuery.CategoryID, "category", listing.All, "category id or name")
	ridesCmd.Flags().StringVar(&rideQuery.SubcategoryID, "subcategory", listing.All, "subcategory id or name")
	ridesCmd.Flags().StringVar(&rideQuery.Status, "status", listing.All, "ride status")
	ridesCmd.Flags().StringVar(&rideQuery.Search, "search", "", "free text search")
	ridesCmd.Flags().StringVar(&rideFrom, "from", "", "first day, YYYY-MM-DD")
	ridesCmd.Flags().StringVar(&rideTo, "to", "", "last day, YYYY-MM-DD")
	ridesCmd.Flags().IntVar(&rideQuery.Page, "page", 1, "page number")
	ridesCmd.Flags().IntVar(&rideQuery.Limit, "limit", 0, "rides per page (default from config)")
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
