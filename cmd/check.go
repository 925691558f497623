package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reviewqueue/format"
	"github.com/s0up4200/reviewqueue/submission"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Test the connection to Airtable",
	Long:  `Verify the API token and read one record of the configured table and view.`,
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := format.NewPrinter(os.Stdout, useColors())

	fmt.Printf("Testing connection to Airtable at %s...\n", airtableClient.BaseURL())

	who, err := airtableClient.WhoAmI(ctx)
	if err != nil {
		p.Error("token rejected: %v", err)
		return fmt.Errorf("failed to verify token: %w", err)
	}
	p.Success("✓ Token valid (user %s)", who.ID)
	if len(who.Scopes) > 0 {
		fmt.Printf("- Scopes: %s\n", strings.Join(who.Scopes, ", "))
	}

	svc, err := newService("", cfg.Airtable.Typecast)
	if err != nil {
		return err
	}

	records, err := svc.List(ctx, submission.ListOptions{MaxRecords: 1})
	if err != nil {
		p.Error("cannot read %q: %v", cfg.Airtable.Table, err)
		return fmt.Errorf("failed to read table: %w", err)
	}
	p.Success("✓ Table %q readable (view %q)", cfg.Airtable.Table, cfg.Airtable.View)
	if len(records) == 0 {
		p.Warning("the view has no records")
	}

	fmt.Printf("- Next filter: %s\n", cfg.Review.NextFilter)
	return nil
}
