package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reviewqueue/airtable"
	"github.com/s0up4200/reviewqueue/filter"
	"github.com/s0up4200/reviewqueue/format"
	"github.com/s0up4200/reviewqueue/submission"
)

var (
	// Command flags
	outputFormat string
	listView     string
	listFormula  string
	listWhere    string
	listSort     string
	listDesc     bool
	listFields   []string
	listMax      int
	nextFilter   string
	typecast     bool
)

// recordsCmd groups the record commands
var recordsCmd = &cobra.Command{
	Use:     "records",
	Aliases: []string{"record", "rec"},
	Short:   "Inspect and review submissions",
}

// listCmd represents the records list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List submissions",
	Long: `List submissions of the configured table in view order.

--formula is evaluated by Airtable (filterByFormula). --where is an expression
evaluated locally on each record, e.g.:

  reviewqueue records list --where 'OS == "linux" && Hours > 10'`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// nextCmd represents the records next command
var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next submission to review",
	Args:  cobra.NoArgs,
	RunE:  runNext,
}

// getCmd represents the records get command
var getCmd = &cobra.Command{
	Use:   "get <index|record-id>",
	Short: "Show a submission by view position or record ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

// statusCmd represents the records status command
var statusCmd = &cobra.Command{
	Use:   "status <record-id> <status>",
	Short: "Set the review status of a submission",
	Args:  cobra.ExactArgs(2),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(recordsCmd)
	recordsCmd.AddCommand(listCmd, nextCmd, getCmd, statusCmd)

	recordsCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", format.Table, "output format (table, json, yaml)")

	listCmd.Flags().StringVar(&listView, "view", "", "view name or ID (default from config)")
	listCmd.Flags().StringVar(&listFormula, "formula", "", "Airtable filterByFormula expression")
	listCmd.Flags().StringVarP(&listWhere, "where", "w", "", "local filter expression")
	listCmd.Flags().StringVar(&listSort, "sort", "", "field to sort by")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "sort descending")
	listCmd.Flags().StringSliceVar(&listFields, "fields", nil, "only return these fields")
	listCmd.Flags().IntVar(&listMax, "max", 0, "maximum number of records (0 = unlimited)")

	nextCmd.Flags().StringVarP(&nextFilter, "filter", "f", "", "next-record expression (overrides review.next_filter)")

	statusCmd.Flags().BoolVar(&typecast, "typecast", true, "let Airtable coerce the value, creating new select options")
}

func runList(cmd *cobra.Command, args []string) error {
	if listMax < 0 {
		return fmt.Errorf("--max must not be negative")
	}

	where := filter.MatchAll()
	if listWhere != "" {
		var err error
		if where, err = submission.CompileFilter(listWhere); err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	svc, err := newService("", cfg.Airtable.Typecast)
	if err != nil {
		return err
	}

	opts := submission.ListOptions{
		View:       listView,
		Formula:    listFormula,
		SortField:  listSort,
		Fields:     listFields,
		MaxRecords: listMax,
	}
	if listDesc {
		opts.SortDirection = airtable.Descending
	}

	logger.Debug().
		Str("view", opts.View).
		Str("formula", opts.Formula).
		Str("where", listWhere).
		Msg("Listing submissions")

	records, err := svc.List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	return printRecords(submission.Matching(records, where))
}

func runNext(cmd *cobra.Command, args []string) error {
	svc, err := newService(nextFilter, cfg.Airtable.Typecast)
	if err != nil {
		return err
	}

	rec, err := svc.Next(cmd.Context())
	if err != nil {
		return err
	}
	return printRecords([]submission.Record{*rec})
}

func runGet(cmd *cobra.Command, args []string) error {
	svc, err := newService("", cfg.Airtable.Typecast)
	if err != nil {
		return err
	}

	rec, err := lookup(cmd.Context(), svc, args[0])
	if err != nil {
		return err
	}
	return printRecords([]submission.Record{*rec})
}

// lookup resolves a view position or a record ID
func lookup(ctx context.Context, svc submission.API, ref string) (*submission.Record, error) {
	if index, err := strconv.Atoi(ref); err == nil {
		return svc.Get(ctx, index)
	}
	return svc.Record(ctx, airtable.RecordID(ref))
}

func runStatus(cmd *cobra.Command, args []string) error {
	tc := cfg.Airtable.Typecast
	if cmd.Flags().Changed("typecast") {
		tc = typecast
	}

	svc, err := newService("", tc)
	if err != nil {
		return err
	}

	id, status := airtable.RecordID(args[0]), args[1]
	rec, err := svc.SetStatus(cmd.Context(), id, status)
	if err != nil {
		return err
	}

	format.NewPrinter(os.Stdout, useColors()).Success("✓ %s (%s) is now %q", rec.Fields.Name, rec.ID, rec.Fields.Status)
	return nil
}

// printRecords writes records in the selected output format
func printRecords(records []submission.Record) error {
	f, err := format.New(outputFormat, os.Stdout, useColors())
	if err != nil {
		return err
	}

	if strings.EqualFold(outputFormat, format.Table) || outputFormat == "" {
		return f.Format(submissionRows(records, useColors()))
	}
	return f.Format(records)
}

// submissionRows lays records out as table rows
func submissionRows(records []submission.Record, colors bool) format.Rows {
	rows := format.Rows{
		Columns: []string{"id", "name", "status", "os", "hours", "repo", "created"},
		Values:  make([][]string, 0, len(records)),
	}

	for _, r := range records {
		f := r.Fields
		hours := ""
		if f.Hours != 0 {
			hours = strconv.FormatFloat(f.Hours, 'f', -1, 64)
		}
		rows.Values = append(rows.Values, []string{
			string(r.ID),
			format.Truncate(f.Name, 32),
			format.StatusColor(f.Status, colors),
			strings.TrimSpace(strings.Join([]string{f.OS, f.Architecture}, " ")),
			hours,
			format.Truncate(f.RepoURL, 48),
			r.CreatedTime.Format("2006-01-02"),
		})
	}

	return rows
}
