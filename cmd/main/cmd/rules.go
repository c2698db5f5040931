package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"rideadmin/pricing/internal/client"
	"rideadmin/pricing/internal/domain"
	"rideadmin/pricing/internal/fare"
	"rideadmin/pricing/internal/listing"
	"rideadmin/pricing/internal/payload"
	"rideadmin/pricing/internal/service"

	"github.com/spf13/cobra"
)

var (
	ruleFamily      string
	ruleID          string
	ruleCategory    string
	ruleSubcategory string
	rulePage        int
	rulePageSize    int
	draftPath       string
	dryRun          bool
	activeStatus    bool
	trip            fare.Trip
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage pricing rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rules of a family, filtered by category and subcategory",
	RunE: func(cmd *cobra.Command, args []string) error {
		family, err := domain.ParseRuleFamily(ruleFamily)
		if err != nil {
			return err
		}

		catalog, err := app.Service.LoadCatalog(cmd.Context())
		if err != nil {
			return err
		}

		filter := listing.NewFilterState(rulePageSize)
		filter.SetCategory(lookupID(catalog.Categories, ruleCategory))
		filter.SetSubcategory(lookupID(catalog.SubcategoriesOf(filter.Filter().CategoryID), ruleSubcategory))
		filter.SetPage(rulePage)

		page, err := app.Service.ListRules(cmd.Context(), family, filter)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCATEGORY\tSUBCATEGORY\tBASE FARE\tINCLUDED KM\tINCLUDED MINUTES\tACTIVE")
		for _, rule := range page.Items {
			subName := catalog.SubcategoryName(rule.SubCategory)
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\t%t\n",
				rule.ID,
				catalog.CategoryName(rule.Category),
				subName,
				rule.BaseFare,
				rule.IncludedKm,
				payload.FormatMinutesDisplay(rule.IncludedMinutes.String(), subName),
				rule.Status,
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s (page %d of %d)\n", page.Summary(), page.Page, page.TotalPages)
		return nil
	},
}

var rulesSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Create or update a rule from a YAML draft file",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(draftPath)
		if err != nil {
			return fmt.Errorf("failed to read draft file: %w", err)
		}
		df, err := service.ParseDraftFile(data)
		if err != nil {
			return err
		}

		if _, err := app.Service.LoadCatalog(cmd.Context()); err != nil {
			return err
		}

		editor, err := app.Service.EditorFromDraftFile(cmd.Context(), df)
		if err != nil {
			return err
		}

		if dryRun {
			p, err := editor.Build()
			if err != nil {
				return reportValidation(cmd, err)
			}
			return printJSON(cmd.OutOrStdout(), p)
		}

		rule, err := app.Service.Submit(cmd.Context(), editor)
		if err != nil {
			return reportValidation(cmd, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s rule %s\n", editor.Family(), rule.ID)
		return nil
	},
}

var rulesStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Activate or deactivate a rule",
	RunE: func(cmd *cobra.Command, args []string) error {
		family, err := domain.ParseRuleFamily(ruleFamily)
		if err != nil {
			return err
		}
		return app.Service.SetStatus(cmd.Context(), family, ruleID, activeStatus)
	},
}

var rulesDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a rule (cab and driver rules are deactivated instead)",
	RunE: func(cmd *cobra.Command, args []string) error {
		family, err := domain.ParseRuleFamily(ruleFamily)
		if err != nil {
			return err
		}
		return app.Service.Delete(cmd.Context(), family, ruleID)
	},
}

var rulesSnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show the payload last submitted for a rule",
	RunE: func(cmd *cobra.Command, args []string) error {
		family, err := domain.ParseRuleFamily(ruleFamily)
		if err != nil {
			return err
		}
		snapshot, err := app.Service.LastSubmission(cmd.Context(), family, ruleID)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), snapshot)
	},
}

var rulesQuoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Preview the fare a rule charges for a trip",
	RunE: func(cmd *cobra.Command, args []string) error {
		family, err := domain.ParseRuleFamily(ruleFamily)
		if err != nil {
			return err
		}
		breakdown, err := app.Service.Quote(cmd.Context(), family, ruleID, trip)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), breakdown)
	},
}

func init() {
	rulesCmd.PersistentFlags().StringVar(&ruleFamily, "family", string(domain.RuleFamilyRideCost), "rule family (cab, driver, ride-cost, wallet)")

	rulesListCmd.Flags().StringVar(&ruleCategory, "category", listing.All, "category id or name")
	rulesListCmd.Flags().StringVar(&ruleSubcategory, "subcategory", listing.All, "subcategory id or name")
	rulesListCmd.Flags().IntVar(&rulePage, "page", 1, "page number")
	rulesListCmd.Flags().IntVar(&rulePageSize, "page-size", listing.DefaultPageSize, "rules per page")

	rulesSubmitCmd.Flags().StringVarP(&draftPath, "file", "f", "", "YAML draft file")
	rulesSubmitCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the payload instead of sending it")
	_ = rulesSubmitCmd.MarkFlagRequired("file")

	for _, c := range []*cobra.Command{rulesStatusCmd, rulesDeleteCmd, rulesSnapshotCmd, rulesQuoteCmd} {
		c.Flags().StringVar(&ruleID, "id", "", "rule id")
		_ = c.MarkFlagRequired("id")
	}
	rulesStatusCmd.Flags().BoolVar(&activeStatus, "active", true, "new status")

	rulesQuoteCmd.Flags().Float64Var(&trip.DistanceKm, "km", 0, "trip distance in km")
	rulesQuoteCmd.Flags().Float64Var(&trip.Minutes, "minutes", 0, "trip duration in minutes")
	rulesQuoteCmd.Flags().BoolVar(&trip.Night, "night", false, "apply the night charge")
	rulesQuoteCmd.Flags().BoolVar(&trip.Peak, "peak", false, "apply the peak charge")

	rulesCmd.AddCommand(rulesListCmd, rulesSubmitCmd, rulesStatusCmd, rulesDeleteCmd, rulesSnapshotCmd, rulesQuoteCmd)
}

// lookupID accepts an id or a display name
func lookupID[T domain.Identifiable](list []T, ref string) string {
	if ref == "" || ref == listing.All {
		return listing.All
	}
	if domain.Contains(list, ref) {
		return ref
	}
	if item, ok := domain.FindByName(list, ref); ok {
		return item.GetID()
	}
	return ref
}

// reportValidation prints field errors, or the admin API's reason when it
// rejected the payload
func reportValidation(cmd *cobra.Command, err error) error {
	if fieldErrs, ok := payload.AsValidation(err); ok {
		for _, fe := range fieldErrs {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", fe.Field, fe.Message)
		}
	} else if apiErr, ok := client.IsAPIError(err); ok && apiErr.StatusCode < 500 {
		fmt.Fprintf(cmd.ErrOrStderr(), "  rejected by the admin API (%d): %s\n", apiErr.StatusCode, apiErr.Message)
	}
	return err
}
