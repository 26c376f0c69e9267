package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"arxivepub/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var showAll bool
	var showFailed bool
	var statusFlag string

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			var statuses []history.Status
			switch {
			case showFailed:
				statuses = []history.Status{history.StatusFailed}
			case statusFlag != "":
				status, ok := history.ParseStatus(statusFlag)
				if !ok {
					return fmt.Errorf("unknown status %q", statusFlag)
				}
				statuses = []history.Status{status}
			}
			items, err := store.List(cmd.Context(), statuses...)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no conversions recorded")
				return nil
			}
			// Default view shows the most recent runs; --all lifts the cap.
			const recentLimit = 20
			if !showAll && len(statuses) == 0 && len(items) > recentLimit {
				items = items[:recentLimit]
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					fmt.Sprintf("%d", item.ID),
					item.PaperID,
					truncate(item.Title, 48),
					string(item.Status),
					item.OutputPath,
					item.UpdatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Paper", "Title", "Status", "Output", "Updated"}, rows))

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d total, %d completed, %d failed\n",
				stats.Total,
				stats.ByStatus[history.StatusCompleted],
				stats.ByStatus[history.StatusFailed])
			return nil
		},
	}
	historyCmd.Flags().BoolVar(&showAll, "all", false, "Show all records instead of the most recent")
	historyCmd.Flags().BoolVar(&showFailed, "failed", false, "Show only failed records")
	historyCmd.Flags().StringVar(&statusFlag, "status", "", "Show only records with the given status")

	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	historyCmd.AddCommand(newHistoryRemoveCommand(ctx))
	return historyCmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove completed and failed records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.ClearFinished(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d record(s)\n", removed)
			return nil
		},
	}
}

func newHistoryRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a single record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			item, err := store.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !item.Status.Terminal() {
				return fmt.Errorf("conversion %d is still %s; wait for it to finish or clear the lock first", id, item.Status)
			}
			if err := store.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed record %d\n", id)
			return nil
		},
	}
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}
