package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/harvestboard/pkg/colors"
	"github.com/harrisonrobin/harvestboard/pkg/model"
	"github.com/harrisonrobin/harvestboard/pkg/overdue"
	"github.com/harrisonrobin/harvestboard/pkg/reconcile"
	"github.com/harrisonrobin/harvestboard/pkg/util"
)

// detailFields is the order columns are shown in the detail view.
var detailFields = []string{
	model.ColCrop,
	model.ColLocation,
	model.ColQuantity,
	model.ColUnit,
	model.ColHarvestDate,
	model.ColStatus,
	model.ColAssignee,
	model.ColHarvestTime,
	model.ColWeight,
	model.ColWashPackTime,
	model.ColNotes,
}

func listCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open harvest tasks for a day",
		Long: `List the open harvest tasks for one harvest date.

Examples:
  harvestboard list                  # today
  harvestboard list --date 7/4/2024
  harvestboard list --all            # every open task`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			date, _ := cmd.Flags().GetString("date")
			all, _ := cmd.Flags().GetBool("all")

			a, err := newApp(ctx, cmd, opts)
			if err != nil {
				return err
			}
			if err := a.load(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var tasks []model.Task
			if all {
				tasks = a.index.All()
			} else {
				date = resolveDate(date, time.Now())
				tasks = a.index.ByDate(date)
				fmt.Fprintf(out, "Harvest date %s\n", date)
			}

			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found.")
				return nil
			}
			fmt.Fprintf(out, "Found %d task(s):\n\n", len(tasks))
			for _, t := range tasks {
				a.printSummary(out, t)
			}
			return nil
		},
	}
	cmd.Flags().String("date", "", "Harvest date (YYYY-MM-DD or M/D/YYYY, default today)")
	cmd.Flags().Bool("all", false, "List every open task regardless of date")
	return cmd
}

func showCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show [row]",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rowKey, err := parseRow(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(ctx, cmd, opts)
			if err != nil {
				return err
			}
			if err := a.load(ctx); err != nil {
				return err
			}
			task, err := a.session.Open(rowKey)
			if err != nil {
				return err
			}
			defer a.session.Close()
			a.printDetail(cmd.OutOrStdout(), task)
			return nil
		},
	}
}

func updateCmd(opts *options) *cobra.Command {
	editFlags := map[string]string{
		"assignee":       model.ColAssignee,
		"harvest-time":   model.ColHarvestTime,
		"weight":         model.ColWeight,
		"wash-pack-time": model.ColWashPackTime,
		"notes":          model.ColNotes,
		"harvest-date":   model.ColHarvestDate,
	}

	cmd := &cobra.Command{
		Use:   "update [row]",
		Short: "Record harvest details for a task",
		Long: `Record harvest details for a task and write them to the sheet.

Only the flags you pass are sent; other columns keep their values.
Setting --assignee marks the task Assigned. --complete requires assignee,
harvest time, weight and wash/pack time, marks the task Completed and
stamps today's date.

Examples:
  harvestboard update 7 --notes "left the small ones"
  harvestboard update 7 --assignee Sam
  harvestboard update 7 --assignee Sam --harvest-time 40 --weight 12.5 --wash-pack-time 15 --complete`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rowKey, err := parseRow(args[0])
			if err != nil {
				return err
			}
			completing, _ := cmd.Flags().GetBool("complete")

			a, err := newApp(ctx, cmd, opts)
			if err != nil {
				return err
			}
			if err := a.load(ctx); err != nil {
				return err
			}
			if _, err := a.session.Open(rowKey); err != nil {
				return err
			}
			for flag, column := range editFlags {
				if !cmd.Flags().Changed(flag) {
					continue
				}
				value, _ := cmd.Flags().GetString(flag)
				if err := a.session.Set(column, value); err != nil {
					return err
				}
			}

			return a.submit(ctx, cmd.OutOrStdout(), completing)
		},
	}
	for flag, column := range editFlags {
		cmd.Flags().String(flag, "", column)
	}
	cmd.Flags().Bool("complete", false, "Mark the task Completed")
	return cmd
}

func overdueCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List open tasks whose harvest date has passed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cmd, opts)
			if err != nil {
				return err
			}
			if err := a.load(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			entries := overdue.Sweep(a.index.All(), time.Now())
			if len(entries) == 0 {
				fmt.Fprintln(out, "Nothing overdue.")
				return nil
			}
			warn := color.New(color.FgRed)
			for _, e := range entries {
				fmt.Fprintf(out, "%s ", warn.Sprintf("%3dd late", e.DaysLate))
				a.printSummary(out, e.Task)
			}
			return nil
		},
	}
}

func (a *app) submit(ctx context.Context, out io.Writer, completing bool) error {
	if len(a.session.Pending()) == 0 && !completing {
		return fmt.Errorf("nothing to update\nHint: pass at least one of --assignee, --harvest-time, --weight, --wash-pack-time, --notes")
	}
	rowKey := a.session.OpenKey()
	outcome, err := a.session.Submit(ctx, completing)
	if err != nil {
		return fmt.Errorf("failed to update row %d: %w", rowKey, err)
	}

	switch outcome.Kind {
	case reconcile.Completed:
		fmt.Fprintf(out, "✓ Completed row %d\n", rowKey)
	default:
		fmt.Fprintf(out, "✓ Updated row %d\n", rowKey)
		if outcome.Task.Fields != nil {
			a.printDetail(out, outcome.Task)
		}
	}
	return nil
}

func (a *app) printSummary(out io.Writer, t model.Task) {
	crop := a.palette.Crop(t.Get(model.ColCrop)).Sprintf("%-14s", t.Get(model.ColCrop))
	status := t.Get(model.ColStatus)
	statusStr := ""
	if status != "" {
		statusStr = " " + colors.Status(status).Sprintf("[%s]", status)
	}
	assignee := ""
	if v := t.Get(model.ColAssignee); v != "" {
		assignee = " " + v
	}
	fmt.Fprintf(out, "%4d  %s %6s %-8s %s%s%s\n",
		t.RowKey, crop, t.Get(model.ColQuantity), t.Get(model.ColUnit), t.Get(model.ColLocation), statusStr, assignee)
}

func (a *app) printDetail(out io.Writer, t model.Task) {
	fmt.Fprintf(out, "Row %d (%s=%s)\n", t.RowKey, a.cfg.KeyColumn, t.UID)
	for _, column := range detailFields {
		value := t.Get(column)
		if column == model.ColStatus && value != "" {
			value = colors.Status(value).Sprint(value)
		}
		fmt.Fprintf(out, "  %-15s %s\n", column+":", value)
	}
}

// resolveDate turns "", "today" or a user date into canonical form.
func resolveDate(input string, now time.Time) string {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "today") {
		return util.Today(now)
	}
	return util.NormalizeDate(input)
}

func parseRow(arg string) (int, error) {
	rowKey, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || rowKey < 2 {
		return 0, fmt.Errorf("invalid row %q: expected a sheet row number of 2 or more", arg)
	}
	return rowKey, nil
}
