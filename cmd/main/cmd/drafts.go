package cmd

import (
	"fmt"
	"os"

	"rideadmin/pricing/internal/service"

	"github.com/spf13/cobra"
)

var draftID string

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Park unfinished rule forms in Redis",
}

var draftsSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Store a YAML draft file and print its draft id",
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

		id, err := app.Service.SaveDraft(cmd.Context(), editor)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var draftsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cascade and fields of a saved draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.Service.LoadCatalog(cmd.Context()); err != nil {
			return err
		}
		editor, err := app.Service.ResumeDraft(cmd.Context(), draftID)
		if err != nil {
			return err
		}

		view := editor.View()
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"family":    editor.Family(),
			"ruleId":    editor.RuleID(),
			"state":     view.State.String(),
			"selection": view.Selection,
			"fields":    editor.Fields(),
		})
	},
}

var draftsSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a saved draft and discard it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.Service.LoadCatalog(cmd.Context()); err != nil {
			return err
		}
		editor, err := app.Service.ResumeDraft(cmd.Context(), draftID)
		if err != nil {
			return err
		}

		rule, err := app.Service.Submit(cmd.Context(), editor)
		if err != nil {
			return reportValidation(cmd, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s rule %s\n", editor.Family(), rule.ID)
		return app.Service.DiscardDraft(cmd.Context(), draftID)
	},
}

var draftsDiscardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Delete a saved draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Service.DiscardDraft(cmd.Context(), draftID)
	},
}

func init() {
	draftsSaveCmd.Flags().StringVarP(&draftPath, "file", "f", "", "YAML draft file")
	_ = draftsSaveCmd.MarkFlagRequired("file")

	for _, c := range []*cobra.Command{draftsShowCmd, draftsSubmitCmd, draftsDiscardCmd} {
		c.Flags().StringVar(&draftID, "id", "", "draft id")
		_ = c.MarkFlagRequired("id")
	}

	draftsCmd.AddCommand(draftsSaveCmd, draftsShowCmd, draftsSubmitCmd, draftsDiscardCmd)
}
